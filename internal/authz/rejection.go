package authz

import (
	"errors"
	"net/http"
)

// Reason codes an authorization rejection for the HTTP layer and logs.
type Reason string

const (
	ReasonUnauthenticated       Reason = "unauthenticated"
	ReasonMissingTenantSelector Reason = "missing_tenant_selector"
	ReasonTenantNotFound        Reason = "tenant_not_found"
	ReasonTenantAccessDenied    Reason = "tenant_access_denied"
	ReasonPermissionDenied      Reason = "permission_denied"
)

// Rejection is the terminal, user-visible outcome of a failed
// resolution or permission check. It is a value, not a panic: every
// expected business condition (missing header, inactive condominium,
// missing permission) ends up here. Messages are what the client sees;
// denied access keeps a generic wording so condominium ids cannot be
// probed by enumeration.
type Rejection struct {
	Reason Reason
}

func (r *Rejection) Error() string { return r.Message() }

// Message is the Portuguese user-facing text, aligned with the frontend.
func (r *Rejection) Message() string {
	switch r.Reason {
	case ReasonUnauthenticated:
		return "Não autenticado."
	case ReasonMissingTenantSelector:
		return `O cabeçalho "X-Condominium-Id" é obrigatório para realizar esta operação.`
	case ReasonTenantNotFound:
		return "O condomínio informado não existe ou está inativo."
	case ReasonTenantAccessDenied:
		return "Você não tem permissão para acessar este condomínio."
	default:
		return "Acesso não autorizado."
	}
}

// HTTPStatus maps the reason to its response code: selector problems are
// client input errors (422), access problems are authorization failures
// (403), missing identity is 401.
func (r *Rejection) HTTPStatus() int {
	switch r.Reason {
	case ReasonUnauthenticated:
		return http.StatusUnauthorized
	case ReasonMissingTenantSelector, ReasonTenantNotFound:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusForbidden
	}
}

func reject(reason Reason) *Rejection {
	return &Rejection{Reason: reason}
}

// AsRejection unwraps err into a *Rejection when it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
