package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lmarques/graphql-user-api/pkg/security"
	"go.uber.org/zap"
)

// Ferramenta de linha de comando para gerar um token de acesso para um
// usuário existente, útil em diagnósticos e na primeira chamada autenticada.
func main() {
	var (
		userID   string
		extended bool
	)

	flag.StringVar(&userID, "user_id", "", "ID do usuário para o token")
	flag.BoolVar(&extended, "extended", false, "Emitir token com validade de 1 semana")
	flag.Parse()

	if userID == "" {
		fmt.Println("Erro: user_id não pode ser vazio.")
		flag.Usage()
		os.Exit(1)
	}

	secret := os.Getenv("UA_AUTH_JWTSECRET")
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		fmt.Println("Erro: defina UA_AUTH_JWTSECRET ou JWT_SECRET.")
		os.Exit(1)
	}

	keyManager, err := security.NewKeyManager(
		[]byte(secret),
		security.DefaultTokenDuration,
		security.DefaultExtendedDuration,
		zap.NewNop(),
	)
	if err != nil {
		fmt.Printf("Erro ao inicializar gerenciador de chaves: %v\n", err)
		os.Exit(1)
	}

	token, err := keyManager.GenerateToken(userID, extended)
	if err != nil {
		fmt.Printf("Erro ao gerar token: %v\n", err)
		os.Exit(1)
	}

	validity := "1 hora"
	if extended {
		validity = "1 semana"
	}

	fmt.Printf("Token (validade de %s):\n\n%s\n\n", validity, token)
	fmt.Println("Use no header: Authorization: Bearer <token>")
}
