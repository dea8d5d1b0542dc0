// Package storefront implements the JSON API of the storefront. Every
// handler works on the visitor session attached by middleware.Session.
package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/handler"
	"github.com/dukerupert/techstore/internal/service"
)

// envelope is the shape of every storefront response. Notifications carries
// the messages the services produced for the customer during the request.
type envelope struct {
	Data          any                   `json:"data,omitempty"`
	Error         *handler.ErrorBody    `json:"error,omitempty"`
	Notifications []domain.Notification `json:"notifications"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// drain empties the session outbox. It never returns nil.
func drain(r *http.Request) []domain.Notification {
	notes := []domain.Notification{}
	if sess := service.SessionFromContext(r.Context()); sess != nil {
		notes = append(notes, sess.Outbox.Drain()...)
	}
	return notes
}

// respond writes data with the pending notifications.
func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	handler.JSON(w, status, envelope{Data: data, Notifications: drain(r)})
}

// fail writes err with the pending notifications.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := handler.StatusFor(err)
	handler.LogError(r, err, status)

	body := handler.NewErrorBody(err)
	handler.JSON(w, status, envelope{Error: &body, Notifications: drain(r)})
}

// currentSession returns the request's session. middleware.Session guarantees it.
func currentSession(r *http.Request) *service.Session {
	sess := service.SessionFromContext(r.Context())
	if sess == nil {
		panic("storefront: no session in request context")
	}
	return sess
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, op string, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Errorf(domain.EINVALID, op, "Request body too large")
		}
		return domain.WrapError(err, domain.EINVALID, op, "Request body is not valid JSON")
	}
	return validateStruct(op, dst)
}

// validateStruct converts validator failures into a domain.ValidationError.
func validateStruct(op string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.WrapError(err, domain.EINVALID, op, "Invalid request")
	}

	var out error
	for _, fe := range verrs {
		msg := fieldMessage(fe)
		if out == nil {
			out = domain.NewValidationError(op, fe.Field(), msg)
			continue
		}
		out = domain.AddFieldError(out, fe.Field(), msg)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must have exactly %s items", fe.Param())
	case "eqfield":
		return "Does not match"
	case "gtefield":
		return "Must not be below " + fe.Param()
	default:
		return "Is invalid"
	}
}

// productIDParam parses the {id} path value of product routes.
func productIDParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, domain.ErrProductNotFound.WithOp("storefront.product_id")
	}
	return id, nil
}

// queryInt64 parses an optional non-negative integer query parameter.
func queryInt64(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, domain.NewValidationError("storefront.query", name, "Must be a non-negative integer")
	}
	return v, nil
}
