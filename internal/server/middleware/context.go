package middleware

import (
	"github.com/MicahParks/keyfunc/v3"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/strainnet/portal/backend/internal/session"
	"github.com/strainnet/portal/backend/pkg/netquery"
	netdb "github.com/strainnet/portal/backend/pkg/netquery/pgx"
	"github.com/strainnet/portal/backend/pkg/network"
)

type AppUser struct {
	UserID      int64
	Role        string
	Permissions []string
}

type App struct {
	DBConn   *pgxpool.Pool
	Queue    *amqp091.Channel
	Key      *keyfunc.Keyfunc
	S3       *s3.Client
	Net      *netdb.NetworkDBQuery
	NetQuery netquery.NetworkQueryService
	Ortho    netquery.OrthologLookupService
	Network  *network.NetworkClient
	Sessions *session.Manager

	MasterAPIKey   string
	MasterUserID   int64
	MasterUserRole string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{
				Context: c,
				App:     app,
			}
			return next(cc)
		}
	}
}
