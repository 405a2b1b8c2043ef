package security

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost é o fator de trabalho fixo do bcrypt. O salt fica
// embutido no próprio digest gerado.
const PasswordHashCost = 6

// HashPassword gera o digest bcrypt da senha em texto plano.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword compara a senha em texto plano com o digest armazenado.
// A comparação é em tempo constante; um digest malformado resulta em
// false, nunca em erro propagado.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
