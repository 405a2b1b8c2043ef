package model

import "time"

// User é a representação externa de um usuário. A senha nunca faz parte
// deste modelo: tudo que sai da camada de use-cases passa por aqui.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	BirthDate string `json:"birthDate"`
	CPF       string `json:"cpf"`
}

// UserEntity é a representação de banco de dados de um usuário
type UserEntity struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	Name      string    `gorm:"not null;size:100;index"`
	Email     string    `gorm:"uniqueIndex;not null;size:100"`
	Password  string    `gorm:"not null" json:"-"`
	BirthDate string    `gorm:"not null;size:20"`
	CPF       string    `gorm:"column:cpf;not null;size:20"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName define o nome da tabela
func (UserEntity) TableName() string {
	return "users"
}

// ToModel converte a entidade persistida no modelo externo, descartando a senha.
func (e *UserEntity) ToModel() *User {
	return &User{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		BirthDate: e.BirthDate,
		CPF:       e.CPF,
	}
}

// LoginResult é o retorno da mutation de login
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UsersPage é o resultado paginado da query de users
type UsersPage struct {
	Users        []*User `json:"users"`
	HasMore      bool    `json:"hasMore"`
	SkippedUsers int     `json:"skippedUsers"`
	TotalUsers   int     `json:"totalUsers"`
}
