package repository

import (
	"github.com/deppfellow/consultas-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Usuarios *UsuarioRepository
	Pedidos  *PedidoRepository
}

// NewRepositories builds every repository on the shared pool.
func NewRepositories(s *server.Server) *Repositories {
	return New(s.DB.Pool)
}

// New builds every repository on db.
func New(db DBTX) *Repositories {
	return &Repositories{
		Usuarios: NewUsuarioRepository(db),
		Pedidos:  NewPedidoRepository(db),
	}
}
