package validators

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"mvdan.cc/xurls/v2"
)

// The parser is safe to share; each Parse call carries its own state.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var (
	// Bare hosts such as evil.com/path that markdown leaves as text.
	relaxedURL   = xurls.Relaxed()
	anySchemeURL = mustScheme(xurls.AnyScheme)
)

func mustScheme(exp string) *regexp.Regexp {
	re, err := xurls.StrictMatchingScheme(exp)
	if err != nil {
		panic(err)
	}
	return re
}

// ContentViolation returns why s is not plain text, or "" when it is.
func ContentViolation(s string) string {
	source := []byte(s)
	doc := markdown.Parser().Parse(text.NewReader(source))

	reason := ""
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Image:
			reason = "images are not allowed"
		case *ast.Link, *ast.AutoLink:
			reason = "links are not allowed"
		case *ast.FencedCodeBlock:
			reason = "code blocks are not allowed"
		default:
			return ast.WalkContinue, nil
		}
		return ast.WalkStop, nil
	})
	if reason != "" {
		return reason
	}

	if relaxedURL.MatchString(s) || anySchemeURL.MatchString(s) {
		return "links are not allowed"
	}
	return ""
}

func plainText(fl validator.FieldLevel) bool {
	return ContentViolation(fl.Field().String()) == ""
}

// New returns a validator with the project's custom rules registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("plaintext", plainText)
	return v
}

// Struct validates s and converts failures into a models.ValidationError.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &models.ValidationError{}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, models.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "max":
		return fmt.Sprintf("max %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("min %s characters", fe.Param())
	case "plaintext":
		if reason := ContentViolation(fe.Value().(string)); reason != "" {
			return reason
		}
		return "must be plain text"
	case "uuid":
		return "must be a uuid"
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}

// CustomValidator plugs the rules into echo's Context.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the echo validator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: New()}
}

func (cv *CustomValidator) Validate(i any) error {
	if err := Struct(cv.validator, i); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "validation_error",
				"message": verr.Error(),
				"fields":  verr.Errors,
			})
		}
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "validation_error",
			"message": err.Error(),
		})
	}
	return nil
}
