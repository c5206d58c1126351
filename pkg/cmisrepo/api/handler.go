package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-cmis/pkg/cmisrepo"
)

// Handler exposes the browser (JSON) binding of the repository service.
// It decodes wire requests, builds a CallContext per call, and maps engine
// error kinds to HTTP statuses. No consistency logic lives here.
type Handler struct {
	service cmisrepo.Service
}

// NewHandler creates a new browser binding handler.
func NewHandler(service cmisrepo.Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes for the browser binding.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/repositories", h.GetRepositoryInfos)
	r.Route("/repositories/{repoID}", func(r chi.Router) {
		r.Get("/", h.GetRepositoryInfo)

		// Type services
		r.Get("/types", h.GetTypeChildren)
		r.Post("/types", h.CreateType)
		r.Get("/types/{typeID}", h.GetTypeDefinition)
		r.Get("/typetree", h.GetTypeDescendants)

		// Object services
		r.Post("/folders", h.CreateFolder)
		r.Post("/documents", h.CreateDocument)
		r.Post("/items", h.CreateItem)
		r.Get("/path", h.GetObjectByPath)
		r.Get("/checkedout", h.GetCheckedOutDocs)

		r.Route("/objects/{objectID}", func(r chi.Router) {
			r.Get("/", h.GetObject)
			r.Delete("/", h.DeleteObject)
			r.Get("/children", h.GetChildren)
			r.Get("/descendants", h.GetDescendants)
			r.Get("/tree", h.GetFolderTree)
			r.Delete("/tree", h.DeleteTree)
			r.Get("/parent", h.GetFolderParent)
			r.Get("/parents", h.GetObjectParents)
			r.Post("/parents", h.AddObjectToFolder)
			r.Delete("/parents/{folderID}", h.RemoveObjectFromFolder)
			r.Get("/properties", h.GetProperties)
			r.Put("/properties", h.UpdateProperties)
			r.Get("/content", h.GetContentStream)
			r.Put("/content", h.SetContentStream)
			r.Delete("/content", h.DeleteContentStream)
			r.Post("/move", h.MoveObject)
			r.Get("/actions", h.GetAllowableActions)

			// Versioning services
			r.Post("/checkout", h.CheckOut)
			r.Post("/cancelcheckout", h.CancelCheckOut)
			r.Post("/checkin", h.CheckIn)
			r.Get("/versions", h.GetAllVersions)
			r.Get("/latest", h.GetObjectOfLatestVersion)
			r.Get("/latest/properties", h.GetPropertiesOfLatestVersion)
		})
	})
	return r
}

// callContext builds the per-request CallContext from the route and the
// basic-auth header. Credential verification is a collaborator's concern.
func callContext(r *http.Request) cmisrepo.CallContext {
	user, pass, _ := r.BasicAuth()
	if user == "" {
		user = "anonymous"
	}
	return cmisrepo.CallContext{
		RepositoryID: chi.URLParam(r, "repoID"),
		Username:     user,
		Password:     pass,
		Binding:      cmisrepo.BindingBrowser,
		Locale:       r.Header.Get("Accept-Language"),
	}
}

// renderError maps engine error kinds to HTTP statuses.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cmisrepo.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, cmisrepo.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, cmisrepo.ErrConstraint), errors.Is(err, cmisrepo.ErrUpdateConflict), errors.Is(err, cmisrepo.ErrRepositoryExists):
		status = http.StatusConflict
	case errors.Is(err, cmisrepo.ErrNotSupported):
		status = http.StatusMethodNotAllowed
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}

func objectIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "objectID"))
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// Repository services

func (h *Handler) GetRepositoryInfos(w http.ResponseWriter, r *http.Request) {
	cc := callContext(r)
	cc.RepositoryID = "-" // not repository-scoped
	infos, err := h.service.GetRepositoryInfos(r.Context(), cc)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, infos)
}

func (h *Handler) GetRepositoryInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.GetRepositoryInfo(r.Context(), callContext(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

func (h *Handler) GetTypeDefinition(w http.ResponseWriter, r *http.Request) {
	def, err := h.service.GetTypeDefinition(r.Context(), callContext(r), chi.URLParam(r, "typeID"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, def)
}

func (h *Handler) GetTypeChildren(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GetTypeChildren(r.Context(), callContext(r),
		r.URL.Query().Get("typeId"),
		r.URL.Query().Get("includeProps") != "false",
		queryInt(r, "maxItems", -1),
		queryInt(r, "skipCount", 0))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

func (h *Handler) GetTypeDescendants(w http.ResponseWriter, r *http.Request) {
	containers, err := h.service.GetTypeDescendants(r.Context(), callContext(r),
		r.URL.Query().Get("typeId"),
		queryInt(r, "depth", -1),
		r.URL.Query().Get("includeProps") != "false")
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, containers)
}

func (h *Handler) CreateType(w http.ResponseWriter, r *http.Request) {
	var def cmisrepo.TypeDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.CreateType(r.Context(), callContext(r), &def); err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, def)
}
