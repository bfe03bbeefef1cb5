package service

import (
	"github.com/deppfellow/consultas-api/internal/repository"
	"github.com/deppfellow/consultas-api/internal/server"
)

type Services struct {
	Consultas *ConsultasService
}

// NewServices wires the services from the server's shared clients.
// When the job server is running it is handed the consultas service so
// consultas:warm tasks can re-run the queries.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	opts := ConsultasOptions{
		Usuarios:  repos.Usuarios,
		Pedidos:   repos.Pedidos,
		Cache:     s.Cache,
		Events:    s.Events,
		Timeout:   s.Config.Query.Timeout,
		SlowQuery: s.Config.Observability.Logging.SlowQueryThreshold,
		Logger:    s.Logger,
	}
	if s.Job != nil {
		opts.Jobs = s.Job
	}

	consultas := NewConsultasService(opts)
	if s.Job != nil {
		s.Job.SetWarmer(consultas)
	}

	return &Services{Consultas: consultas}, nil
}
