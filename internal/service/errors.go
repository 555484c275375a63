package service

import "errors"

// User-facing business errors. Messages are Portuguese because they are
// rendered verbatim by the frontend.
var (
	ErrInvalidCredentials  = errors.New("E-mail ou senha incorretos.")
	ErrAccountDisabled     = errors.New("Sua conta está desativada. Entre em contato com o síndico.")
	ErrNoActiveCondominium = errors.New("Nenhum condomínio ativo vinculado à sua conta.")

	ErrUserNotFound        = errors.New("Usuário não encontrado.")
	ErrEmailTaken          = errors.New("Este e-mail já está em uso.")
	ErrDeliveryNotFound    = errors.New("Entrega não encontrada.")
	ErrCommonSpaceNotFound = errors.New("Espaço comum não encontrado.")
	ErrCondominiumNotFound = errors.New("Condomínio não encontrado.")
	ErrEmployeeNotFound    = errors.New("Funcionário não encontrado.")

	ErrDeliveryAlreadyDone = errors.New("Esta entrega já foi confirmada.")
)

// IsNotFound reports whether err is one of the not-found business
// errors, so the HTTP layer can map them to 404 uniformly.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrDeliveryNotFound) ||
		errors.Is(err, ErrCommonSpaceNotFound) ||
		errors.Is(err, ErrCondominiumNotFound) ||
		errors.Is(err, ErrEmployeeNotFound)
}
