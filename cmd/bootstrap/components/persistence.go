package components

import (
	"event-notifier/internal/infra/db"
	"event-notifier/internal/infra/readstore"
	"event-notifier/internal/infra/uow"
	"event-notifier/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewChangeRecordReadStore,
			fx.As(new(queries.UpdatesReadStore)),
		),
	),
)

// Write-side repositories are created per transaction by the unit of work.
var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
