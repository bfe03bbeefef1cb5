package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/deppfellow/consultas-api/internal/errs"
	"github.com/deppfellow/consultas-api/internal/lib/cache"
	"github.com/deppfellow/consultas-api/internal/model"
	"github.com/deppfellow/consultas-api/internal/validation"
)

// Inputs of the nine fixed consultas.
const (
	UsuarioPedidos  int64  = 2
	UsuarioConteo   int64  = 5
	PrefijoUsuarios string = "R"
)

var (
	PrecioMinimo = decimal.NewFromInt(100)
	PrecioMaximo = decimal.NewFromInt(250)
)

type usuarioStore interface {
	PorPrefijo(ctx context.Context, prefijo string) ([]model.Usuario, error)
}

type pedidoStore interface {
	Create(ctx context.Context, in model.NuevoPedido) (*model.Pedido, error)
	PorUsuario(ctx context.Context, idUsuario int64) ([]model.Pedido, error)
	EnRango(ctx context.Context, min, max decimal.Decimal) ([]model.Pedido, error)
	ConUsuarios(ctx context.Context) ([]model.PedidoUsuarioFila, error)
	Contar(ctx context.Context, idUsuario int64) (int64, error)
	OrdenadosDesc(ctx context.Context) ([]model.PedidoConUsuario, error)
	Suma(ctx context.Context) (decimal.Decimal, error)
	MasEconomico(ctx context.Context) (*model.PedidoConUsuario, error)
	Agrupados(ctx context.Context) ([]model.PedidoAgrupadoFila, error)
}

type eventPublisher interface {
	PedidoRegistrado(ctx context.Context, pedido model.Pedido) error
}

type warmEnqueuer interface {
	EnqueueWarm(ctx context.Context, reason string) error
}

// ConsultasService runs the canned consultas and their parameterized forms.
//
// Every read goes through the cache and runs under its own timeout. Storage
// failures come back as *errs.DataAccessError, invalid input as a 400
// *errs.HTTPError returned before any query runs.
type ConsultasService struct {
	usuarios usuarioStore
	pedidos  pedidoStore
	cache    *cache.Cache
	events   eventPublisher
	jobs     warmEnqueuer

	timeout   time.Duration
	slowQuery time.Duration
	logger    *zerolog.Logger
}

// ConsultasOptions carries the collaborators of ConsultasService.
// Events and Jobs are optional.
type ConsultasOptions struct {
	Usuarios  usuarioStore
	Pedidos   pedidoStore
	Cache     *cache.Cache
	Events    eventPublisher
	Jobs      warmEnqueuer
	Timeout   time.Duration
	SlowQuery time.Duration
	Logger    *zerolog.Logger
}

func NewConsultasService(opts ConsultasOptions) *ConsultasService {
	return &ConsultasService{
		usuarios:  opts.Usuarios,
		pedidos:   opts.Pedidos,
		cache:     opts.Cache,
		events:    opts.Events,
		jobs:      opts.Jobs,
		timeout:   opts.Timeout,
		slowQuery: opts.SlowQuery,
		logger:    opts.Logger,
	}
}

// log returns the request-scoped logger stored by the HTTP middleware, or
// the service logger for background callers such as the warm task.
func (s *ConsultasService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

// query runs load through the cache with the per-query timeout applied.
func query[T any](ctx context.Context, s *ConsultasService, op string, key string, load func(context.Context) (T, error)) (T, error) {
	return cache.Remember(ctx, s.cache, key, func(ctx context.Context) (T, error) {
		defer newrelic.FromContext(ctx).StartSegment("consultas/" + op).End()

		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		start := time.Now()
		result, err := load(ctx)
		elapsed := time.Since(start)

		if err != nil {
			var zero T
			s.log(ctx).Error().Err(err).Str("op", op).Dur("duration", elapsed).Msg("consulta failed")
			return zero, errs.NewDataAccessError(op, err)
		}

		if s.slowQuery > 0 && elapsed > s.slowQuery {
			s.log(ctx).Warn().Str("op", op).Dur("duration", elapsed).Msg("slow consulta")
		}

		return result, nil
	})
}

// PedidosPorUsuario lists the orders of one user ordered by id.
func (s *ConsultasService) PedidosPorUsuario(ctx context.Context, idUsuario int64) ([]model.Pedido, error) {
	if err := validation.Check(&model.FiltroUsuario{ID: idUsuario}); err != nil {
		return nil, err
	}

	key := s.cache.Key("pedidos_por_usuario", strconv.FormatInt(idUsuario, 10))
	return query(ctx, s, "pedidos_por_usuario", key, func(ctx context.Context) ([]model.Pedido, error) {
		return s.pedidos.PorUsuario(ctx, idUsuario)
	})
}

func (s *ConsultasService) PedidosUsuario2(ctx context.Context) ([]model.Pedido, error) {
	return s.PedidosPorUsuario(ctx, UsuarioPedidos)
}

// PedidosConUsuarios projects every order with its owner's name and email.
func (s *ConsultasService) PedidosConUsuarios(ctx context.Context) ([]model.PedidoUsuarioFila, error) {
	return query(ctx, s, "pedidos_con_usuarios", s.cache.Key("pedidos_con_usuarios"),
		func(ctx context.Context) ([]model.PedidoUsuarioFila, error) {
			return s.pedidos.ConUsuarios(ctx)
		})
}

// PedidosEnRango lists orders with min <= total <= max.
func (s *ConsultasService) PedidosEnRango(ctx context.Context, min, max decimal.Decimal) ([]model.Pedido, error) {
	if err := validation.Check(&model.FiltroRango{Min: &min, Max: &max}); err != nil {
		return nil, err
	}

	key := s.cache.Key("pedidos_en_rango", min.StringFixed(2), max.StringFixed(2))
	return query(ctx, s, "pedidos_en_rango", key, func(ctx context.Context) ([]model.Pedido, error) {
		return s.pedidos.EnRango(ctx, min, max)
	})
}

func (s *ConsultasService) PedidosRangoPrecio(ctx context.Context) ([]model.Pedido, error) {
	return s.PedidosEnRango(ctx, PrecioMinimo, PrecioMaximo)
}

// UsuariosPorPrefijo lists users whose name starts with prefijo, ignoring case.
func (s *ConsultasService) UsuariosPorPrefijo(ctx context.Context, prefijo string) ([]model.Usuario, error) {
	if err := validation.Check(&model.FiltroPrefijo{Prefijo: prefijo}); err != nil {
		return nil, err
	}

	key := s.cache.Key("usuarios_por_prefijo", strconv.Quote(prefijo))
	return query(ctx, s, "usuarios_por_prefijo", key, func(ctx context.Context) ([]model.Usuario, error) {
		return s.usuarios.PorPrefijo(ctx, prefijo)
	})
}

func (s *ConsultasService) UsuariosConR(ctx context.Context) ([]model.Usuario, error) {
	return s.UsuariosPorPrefijo(ctx, PrefijoUsuarios)
}

// ContarPedidos counts the orders of one user. Unknown users count 0.
func (s *ConsultasService) ContarPedidos(ctx context.Context, idUsuario int64) (int64, error) {
	if err := validation.Check(&model.FiltroUsuario{ID: idUsuario}); err != nil {
		return 0, err
	}

	key := s.cache.Key("contar_pedidos", strconv.FormatInt(idUsuario, 10))
	return query(ctx, s, "contar_pedidos", key, func(ctx context.Context) (int64, error) {
		return s.pedidos.Contar(ctx, idUsuario)
	})
}

func (s *ConsultasService) ContarPedidosUsuario5(ctx context.Context) (int64, error) {
	return s.ContarPedidos(ctx, UsuarioConteo)
}

// PedidosOrdenadosDesc lists every order with its user, most expensive first.
func (s *ConsultasService) PedidosOrdenadosDesc(ctx context.Context) ([]model.PedidoConUsuario, error) {
	return query(ctx, s, "pedidos_ordenados_desc", s.cache.Key("pedidos_ordenados_desc"),
		func(ctx context.Context) ([]model.PedidoConUsuario, error) {
			return s.pedidos.OrdenadosDesc(ctx)
		})
}

// SumaTotalPedidos adds up every order total. No orders sum to zero.
func (s *ConsultasService) SumaTotalPedidos(ctx context.Context) (decimal.Decimal, error) {
	return query(ctx, s, "suma_total_pedidos", s.cache.Key("suma_total_pedidos"),
		func(ctx context.Context) (decimal.Decimal, error) {
			return s.pedidos.Suma(ctx)
		})
}

// PedidoMasEconomico returns the cheapest order with its user, lowest id on
// ties, or nil when there are no orders.
func (s *ConsultasService) PedidoMasEconomico(ctx context.Context) (*model.PedidoConUsuario, error) {
	return query(ctx, s, "pedido_mas_economico", s.cache.Key("pedido_mas_economico"),
		func(ctx context.Context) (*model.PedidoConUsuario, error) {
			return s.pedidos.MasEconomico(ctx)
		})
}

// PedidosAgrupados groups the joined orders by user name, names ascending.
func (s *ConsultasService) PedidosAgrupados(ctx context.Context) ([]model.GrupoPedidos, error) {
	filas, err := query(ctx, s, "pedidos_agrupados", s.cache.Key("pedidos_agrupados"),
		func(ctx context.Context) ([]model.PedidoAgrupadoFila, error) {
			return s.pedidos.Agrupados(ctx)
		})
	if err != nil {
		return nil, err
	}
	return model.AgruparPorNombre(filas), nil
}

// RegistrarPedido validates and inserts an order.
//
// After the insert the cache is flushed, a pedido.registrado event is
// published and a cache warm is enqueued. Failures in those follow-ups are
// logged and do not fail the insert.
func (s *ConsultasService) RegistrarPedido(ctx context.Context, in model.NuevoPedido) (*model.Pedido, error) {
	if err := validation.Check(&in); err != nil {
		return nil, err
	}

	insertCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		insertCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	pedido, err := s.pedidos.Create(insertCtx, in)
	if err != nil {
		return nil, errs.NewDataAccessError("registrar_pedido", err)
	}

	log := s.log(ctx).With().Int64("pedido_id", pedido.ID).Logger()
	log.Info().Int64("id_usuario", pedido.IDUsuario).Msg("pedido registrado")

	if _, err := s.cache.Flush(ctx); err != nil {
		log.Warn().Err(err).Msg("flushing cache after insert")
	}

	if s.events != nil {
		if err := s.events.PedidoRegistrado(ctx, *pedido); err != nil {
			log.Warn().Err(err).Msg("publishing pedido event")
		}
	}

	if s.jobs != nil {
		if err := s.jobs.EnqueueWarm(ctx, "pedido_registrado"); err != nil {
			log.Warn().Err(err).Msg("enqueueing cache warm")
		}
	}

	return pedido, nil
}

// Calentar flushes the cache and runs the nine fixed consultas so their
// results are cached again. Every consulta runs even when an earlier one fails.
func (s *ConsultasService) Calentar(ctx context.Context) error {
	if _, err := s.cache.Flush(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("flushing cache before warm-up")
	}

	var failed []error
	collect := func(err error) {
		if err != nil {
			failed = append(failed, err)
		}
	}

	_, err := s.PedidosUsuario2(ctx)
	collect(err)
	_, err = s.PedidosConUsuarios(ctx)
	collect(err)
	_, err = s.PedidosRangoPrecio(ctx)
	collect(err)
	_, err = s.UsuariosConR(ctx)
	collect(err)
	_, err = s.ContarPedidosUsuario5(ctx)
	collect(err)
	_, err = s.PedidosOrdenadosDesc(ctx)
	collect(err)
	_, err = s.SumaTotalPedidos(ctx)
	collect(err)
	_, err = s.PedidoMasEconomico(ctx)
	collect(err)
	_, err = s.PedidosAgrupados(ctx)
	collect(err)

	return errors.Join(failed...)
}
