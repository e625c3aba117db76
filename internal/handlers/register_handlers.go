package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
	"github.com/ledgerkeep/ledgerkeep/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	registerCustomValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services, rateLimiter)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1",
		middleware.RateLimitMiddleware(rateLimiter),
		middleware.AuthMiddleware(cfg.JWTSecret),
	)

	registerLedgerRoutes(v1, services.Ledger)
	registerAccountRoutes(v1, services.Account)
}

// registerCustomValidators wires domain-aware binding validators.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("accounttype", func(fl validator.FieldLevel) bool {
		return domain.AccountType(strings.ToUpper(fl.Field().String())).IsValid()
	})
}
