// Package validation concentra as regras de validação compartilhadas pelos
// use-cases, em vez de repeti-las por operação.
package validation

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

	// exige pelo menos uma letra maiúscula e uma minúscula, em qualquer ordem
	mixedCasePattern = regexp.MustCompile(`([A-Z].*[a-z])|([a-z].*[A-Z])`)
)

// MinPasswordLength é o tamanho mínimo aceito para senhas.
const MinPasswordLength = 7

// IsValidEmail verifica se a string tem o formato local@dominio.tld.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsStrongPassword verifica o tamanho mínimo e a presença de letras
// maiúsculas e minúsculas.
func IsStrongPassword(password string) bool {
	return len(password) >= MinPasswordLength && mixedCasePattern.MatchString(password)
}
