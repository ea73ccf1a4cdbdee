package storefrontserver

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	addressdomain "github.com/Apurer/go-gin-storefront/internal/domains/addresses/domain"
	admindomain "github.com/Apurer/go-gin-storefront/internal/domains/admin/domain"
	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder("", workflowConflict, missingFields)

// respondProblem writes problem through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// abortWithError records err for ErrorMiddleware and stops the chain.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// workflowConflict answers 409 for order steps taken out of turn. Those
// errors carry no kind of their own.
func workflowConflict(err error) (apierrors.ProblemDetail, bool) {
	if apierrors.KindOf(err) != apierrors.KindUnknown {
		return apierrors.ProblemDetail{}, false
	}
	switch {
	case errors.Is(err, orderapp.ErrInvalidTransition),
		errors.Is(err, orderapp.ErrAborted),
		errors.Is(err, orderapp.ErrStale):
		return apierrors.ErrConflict.WithDetail(apierrors.MessageOf(err, err.Error())), true
	}
	return apierrors.ProblemDetail{}, false
}

// missingFields names every blank required field of a product or address
// form under the "fields" extension.
func missingFields(err error) (apierrors.ProblemDetail, bool) {
	if !apierrors.Is(err, apierrors.KindValidation) {
		return apierrors.ProblemDetail{}, false
	}
	names := admindomain.MissingFields(err)
	if len(names) == 0 {
		names = addressdomain.MissingFields(err)
	}
	if len(names) == 0 {
		return apierrors.ProblemDetail{}, false
	}
	fields := make(map[string]string, len(names))
	for _, name := range names {
		fields[name] = "required"
	}
	return apierrors.NewValidationProblem(fields).WithDetail(apierrors.MessageOf(err, "")), true
}

// ErrorMiddleware renders the last error a handler recorded. A rejected
// Commerce API token ends the session before the 401 goes out.
func ErrorMiddleware(logger *slog.Logger, onExpired func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		if apierrors.Is(err, apierrors.KindSessionExpired) && onExpired != nil {
			onExpired(c)
		}
		problem := responder.ProblemFor(err)
		if problem.Status >= 500 {
			logger.LogAttrs(c.Request.Context(), slog.LevelError, "request failed",
				slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		}
		if view, ok := c.Get(ctxErrorView); ok {
			problem = problem.WithExtension("view", view)
		}
		responder.Respond(c, problem)
	}
}
