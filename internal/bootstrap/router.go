package bootstrap

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	httpapi "github.com/sanjitr11/semiotic-logo-generator/internal/api/http"
	"github.com/sanjitr11/semiotic-logo-generator/internal/api/http/middleware"
	"github.com/sanjitr11/semiotic-logo-generator/internal/api/http/routes"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/generation"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/service"
	"github.com/sanjitr11/semiotic-logo-generator/internal/web"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	DB             *sql.DB
	Redis          *redis.Client
	Service        *service.Service
	Metrics        *generation.Metrics
	Log            logrus.FieldLogger
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))
	r.Use(middleware.RequestID(dep.Log))

	opts := []httpapi.HealthOption{httpapi.WithGenerationMetrics(dep.Metrics)}
	if dep.DB != nil {
		opts = append(opts, httpapi.WithDB(dep.DB))
	}
	if dep.Redis != nil {
		client := dep.Redis
		opts = append(opts, httpapi.WithCache(httpapi.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})))
	}
	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, opts...).RegisterRoutes(r)

	routes.RegisterAPI(r, routes.APIDeps{Service: dep.Service})

	pages, err := web.New(dep.Service, dep.Log)
	if err != nil {
		return nil, err
	}
	pages.Register(r)

	return r, nil
}
