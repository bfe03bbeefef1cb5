package model

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/deppfellow/consultas-api/internal/validation"
)

// maxTotal is the first value that no longer fits NUMERIC(10,2).
const maxTotal = 100_000_000

// FiltroUsuario selects one user by id.
type FiltroUsuario struct {
	ID int64 `param:"id" validate:"min=1"`
}

func (f *FiltroUsuario) Validate() error {
	return validation.Struct(f)
}

// FiltroPrefijo selects users whose name starts with Prefijo.
type FiltroPrefijo struct {
	Prefijo string `query:"prefijo" validate:"required,max=100"`
}

func (f *FiltroPrefijo) Validate() error {
	if err := validation.Struct(f); err != nil {
		return err
	}
	if strings.TrimSpace(f.Prefijo) == "" {
		return validation.CustomValidationErrors{{Field: "prefijo", Message: "is required"}}
	}
	return nil
}

// FiltroRango selects orders whose total lies in [Min, Max].
// Both bounds are pointers so a missing query parameter can be told apart from 0.
type FiltroRango struct {
	Min *decimal.Decimal `query:"min"`
	Max *decimal.Decimal `query:"max"`
}

func (f *FiltroRango) Validate() error {
	var errs validation.CustomValidationErrors

	if f.Min == nil {
		errs = append(errs, validation.CustomValidationError{Field: "min", Message: "is required"})
	} else if f.Min.IsNegative() {
		errs = append(errs, validation.CustomValidationError{Field: "min", Message: "must be at least 0"})
	}

	if f.Max == nil {
		errs = append(errs, validation.CustomValidationError{Field: "max", Message: "is required"})
	} else if f.Max.IsNegative() {
		errs = append(errs, validation.CustomValidationError{Field: "max", Message: "must be at least 0"})
	}

	if len(errs) == 0 && f.Min.GreaterThan(*f.Max) {
		errs = append(errs, validation.CustomValidationError{Field: "min", Message: "must not exceed max"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// NuevoUsuario is the input for inserting a user.
type NuevoUsuario struct {
	Nombre   string `json:"nombre" validate:"required,max=255"`
	Correo   string `json:"correo" validate:"required,email,max=255"`
	Telefono string `json:"telefono" validate:"required,max=255"`
}

func (u *NuevoUsuario) Validate() error {
	return validation.Struct(u)
}

// NuevoPedido is the input for inserting an order.
type NuevoPedido struct {
	Producto  string          `json:"producto" validate:"required,max=255"`
	Cantidad  int32           `json:"cantidad" validate:"min=1"`
	Total     decimal.Decimal `json:"total"`
	IDUsuario int64           `json:"id_usuario" validate:"min=1"`
}

func (p *NuevoPedido) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}

	switch {
	case p.Total.IsNegative():
		return validation.CustomValidationErrors{{Field: "total", Message: "must be at least 0"}}
	case !p.Total.Equal(p.Total.Round(2)):
		return validation.CustomValidationErrors{{Field: "total", Message: "must have at most 2 decimal places"}}
	case p.Total.GreaterThanOrEqual(decimal.NewFromInt(maxTotal)):
		return validation.CustomValidationErrors{{Field: "total", Message: "must be less than 100000000"}}
	}
	return nil
}
