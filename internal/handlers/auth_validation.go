package handlers

import (
	"strings"

	"github.com/Mimesse/fit-coach-hub/internal/models"
	"github.com/Mimesse/fit-coach-hub/pkg/utils"
)

// User-facing messages. The product surface is Brazilian Portuguese; raw
// backend errors never reach the client.
const (
	msgInvalidBody       = "Requisição inválida"
	msgInvalidEmail      = "Email inválido"
	msgShortPassword     = "A senha deve ter pelo menos 6 caracteres"
	msgNameRequired      = "Nome completo é obrigatório"
	msgInvalidRole       = "Tipo de conta inválido"
	msgInvalidCredential = "CREF inválido"
	msgEmailMismatch     = "Os emails não coincidem"
	msgPasswordMismatch  = "As senhas não coincidem"
	msgBadCredentials    = "Email ou senha incorretos"
	msgEmailNotConfirmed = "Confirme seu email antes de entrar"
	msgEmailTaken        = "Este email já está cadastrado"
	msgCredentialTaken   = "Este CREF já está cadastrado"
	msgBadConfirmLink    = "Link de confirmação inválido ou expirado"
	msgSignUpFailed      = "Erro ao criar conta"
	msgSignInFailed      = "Erro ao fazer login"
	msgResetFailed       = "Não foi possível redefinir sua senha. Tente novamente."
	msgGeneric           = "Ocorreu um erro inesperado"
)

// validateRegisterRequest checks every applicable field and reports all
// failures at once. It also normalizes the request in place; nothing reaches
// the database unless the returned map is empty.
func validateRegisterRequest(req *registerRequest) map[string]string {
	fieldErrors := map[string]string{}

	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if utils.ValidateEmail(req.Email) != nil {
		fieldErrors["email"] = msgInvalidEmail
	}
	if utils.ValidatePassword(req.Password) != nil {
		fieldErrors["password"] = msgShortPassword
	}
	if req.FullName == "" {
		fieldErrors["full_name"] = msgNameRequired
	}
	if !models.IsValidRole(req.Role) {
		fieldErrors["role"] = msgInvalidRole
	}

	if req.Role == models.RoleTrainer {
		if utils.ValidateCredentialID(req.CredentialID) != nil {
			fieldErrors["credential_id"] = msgInvalidCredential
		} else {
			req.CredentialID = utils.NormalizeCredentialID(req.CredentialID)
		}
		if normalizeEmail(req.ConfirmEmail) != req.Email || req.Email == "" {
			fieldErrors["confirm_email"] = msgEmailMismatch
		}
	}

	return fieldErrors
}

func validateLoginRequest(req *loginRequest) map[string]string {
	fieldErrors := map[string]string{}

	req.Email = normalizeEmail(req.Email)
	if utils.ValidateEmail(req.Email) != nil {
		fieldErrors["email"] = msgInvalidEmail
	}
	if utils.ValidatePassword(req.Password) != nil {
		fieldErrors["password"] = msgShortPassword
	}

	return fieldErrors
}

func validateResetPasswordRequest(req *resetPasswordRequest) map[string]string {
	fieldErrors := map[string]string{}

	if utils.ValidatePassword(req.Password) != nil {
		fieldErrors["password"] = msgShortPassword
	}
	if req.Password != req.ConfirmPassword {
		fieldErrors["confirm_password"] = msgPasswordMismatch
	}

	return fieldErrors
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
