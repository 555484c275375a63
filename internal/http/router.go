package httpapi

import (
	"net/http"

	"vivacondo-api/internal/authz"

	"go.uber.org/zap"
)

// Router wraps the standard library ServeMux; route-level method and
// permission dispatch happens in the Register* methods below.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) RegisterAuthRoutes(mw *Middleware, h *AuthHandler) {
	r.Handle("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.Login(w, req)
	})
	r.Handle("/auth/logout", mw.RequireAuth(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.Logout(w, req)
	}))
	r.Handle("/auth/validate-token", mw.RequireAuth(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.ValidateToken(w, req)
	}))
}

func (r *Router) RegisterUserRoutes(mw *Middleware, h *UserHandler) {
	targetID := func(req *http.Request) (int64, bool) {
		id, _, ok := pathID(req.URL.Path, "/api/users/")
		return id, ok
	}

	list := mw.Chain(authz.ModuleResidents, authz.ActionView, h.Collection)
	create := mw.Chain(authz.ModuleResidents, authz.ActionCreate, h.Collection)
	get := mw.ChainSelf(authz.ModuleResidents, authz.ActionView, targetID, h.Item)
	update := mw.ChainSelf(authz.ModuleResidents, authz.ActionEdit, targetID, h.Item)
	settings := mw.ChainSelf(authz.ModuleResidents, authz.ActionEdit, targetID, h.Item)
	// Status/role changes and deletion never take the self-access path.
	status := mw.Chain(authz.ModuleResidents, authz.ActionEdit, h.Item)
	remove := mw.Chain(authz.ModuleResidents, authz.ActionDelete, h.Item)
	export := mw.Chain(authz.ModuleResidents, authz.ActionView, h.Export)

	r.Handle("/api/users", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			list(w, req)
		case http.MethodPost:
			create(w, req)
		default:
			methodNotAllowed(w)
		}
	})
	r.Handle("/api/users/export", export)
	r.Handle("/api/users/", func(w http.ResponseWriter, req *http.Request) {
		_, rest, ok := pathID(req.URL.Path, "/api/users/")
		if !ok {
			writeJSON(w, http.StatusNotFound, Fail("Usuário não encontrado."))
			return
		}
		switch {
		case rest == "" && req.Method == http.MethodGet:
			get(w, req)
		case rest == "" && req.Method == http.MethodPut:
			update(w, req)
		case rest == "" && req.Method == http.MethodDelete:
			remove(w, req)
		case rest == "status" && req.Method == http.MethodPatch:
			status(w, req)
		case rest == "settings" && req.Method == http.MethodPatch:
			settings(w, req)
		default:
			methodNotAllowed(w)
		}
	})
}

func (r *Router) RegisterEmployeeRoutes(mw *Middleware, h *EmployeeHandler) {
	list := mw.Chain(authz.ModuleEmployees, authz.ActionView, h.Collection)
	create := mw.Chain(authz.ModuleEmployees, authz.ActionCreate, h.Collection)
	get := mw.Chain(authz.ModuleEmployees, authz.ActionView, h.Item)
	update := mw.Chain(authz.ModuleEmployees, authz.ActionEdit, h.Item)
	remove := mw.Chain(authz.ModuleEmployees, authz.ActionDelete, h.Item)

	r.Handle("/api/employees", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			list(w, req)
		case http.MethodPost:
			create(w, req)
		default:
			methodNotAllowed(w)
		}
	})
	r.Handle("/api/employees/", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			get(w, req)
		case http.MethodPut:
			update(w, req)
		case http.MethodDelete:
			remove(w, req)
		default:
			methodNotAllowed(w)
		}
	})
}

func (r *Router) RegisterDeliveryRoutes(mw *Middleware, h *DeliveryHandler) {
	list := mw.Chain(authz.ModuleDeliveries, authz.ActionView, h.Collection)
	create := mw.Chain(authz.ModuleDeliveries, authz.ActionCreate, h.Collection)
	get := mw.Chain(authz.ModuleDeliveries, authz.ActionView, h.Item)
	update := mw.Chain(authz.ModuleDeliveries, authz.ActionEdit, h.Item)
	remove := mw.Chain(authz.ModuleDeliveries, authz.ActionDelete, h.Item)
	confirm := mw.Chain(authz.ModuleDeliveries, authz.ActionEdit, h.Item)
	export := mw.Chain(authz.ModuleDeliveries, authz.ActionView, h.Export)

	r.Handle("/api/deliveries", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			list(w, req)
		case http.MethodPost:
			create(w, req)
		default:
			methodNotAllowed(w)
		}
	})
	r.Handle("/api/deliveries/export", export)
	r.Handle("/api/deliveries/", func(w http.ResponseWriter, req *http.Request) {
		_, rest, ok := pathID(req.URL.Path, "/api/deliveries/")
		if !ok {
			writeJSON(w, http.StatusNotFound, Fail("Entrega não encontrada."))
			return
		}
		switch {
		case rest == "confirm" && req.Method == http.MethodPost:
			confirm(w, req)
		case rest == "" && req.Method == http.MethodGet:
			get(w, req)
		case rest == "" && req.Method == http.MethodPut:
			update(w, req)
		case rest == "" && req.Method == http.MethodDelete:
			remove(w, req)
		default:
			methodNotAllowed(w)
		}
	})
}

func (r *Router) RegisterCommonSpaceRoutes(mw *Middleware, h *CommonSpaceHandler) {
	list := mw.Chain(authz.ModuleCommonSpaces, authz.ActionView, h.Collection)
	create := mw.Chain(authz.ModuleCommonSpaces, authz.ActionCreate, h.Collection)
	get := mw.Chain(authz.ModuleCommonSpaces, authz.ActionView, h.Item)
	update := mw.Chain(authz.ModuleCommonSpaces, authz.ActionEdit, h.Item)
	remove := mw.Chain(authz.ModuleCommonSpaces, authz.ActionDelete, h.Item)

	r.Handle("/api/common-spaces", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			list(w, req)
		case http.MethodPost:
			create(w, req)
		default:
			methodNotAllowed(w)
		}
	})
	r.Handle("/api/common-spaces/", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			get(w, req)
		case http.MethodPut:
			update(w, req)
		case http.MethodDelete:
			remove(w, req)
		default:
			methodNotAllowed(w)
		}
	})
}

func (r *Router) RegisterCondominiumRoutes(mw *Middleware, h *CondominiumHandler) {
	collection := mw.RequireAuth(mw.RequireSuporte(h.Collection))
	item := mw.RequireAuth(mw.RequireSuporte(h.Item))

	r.Handle("/api/condominiums", collection)
	r.Handle("/api/condominiums/", item)
}

func (r *Router) RegisterAuditRoutes(mw *Middleware, h *AuditHandler) {
	r.Handle("/api/audit-logs", mw.RequireAuth(mw.RequireCondominium(mw.RequireOwnerOrSuporte(h.List))))
}
