package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"accounts/internal/domain/repository"
	"accounts/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type optionalIndex struct {
	name    string
	column  string
	enabled bool
}

// Migrate brings the accounts table up to date. The email index always exists; the company
// and subject unique indexes are created or dropped to match fields.
func Migrate(ctx context.Context, db *gorm.DB, fields repository.UniqueFields, logger *slog.Logger) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(&model.AccountModel{}); err != nil {
		return errors.Wrap(err, "failed to migrate accounts table")
	}

	migrator := db.Migrator()
	for _, idx := range optionalIndexes(fields) {
		exists := migrator.HasIndex(&model.AccountModel{}, idx.name)

		switch {
		case idx.enabled && !exists:
			stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)",
				idx.name, model.AccountModel{}.TableName(), idx.column)
			if err := db.Exec(stmt).Error; err != nil {
				return errors.Wrapf(err, "failed to create index %s", idx.name)
			}
			logger.InfoContext(ctx, "Created unique index", slog.String("index", idx.name))
		case !idx.enabled && exists:
			if err := migrator.DropIndex(&model.AccountModel{}, idx.name); err != nil {
				return errors.Wrapf(err, "failed to drop index %s", idx.name)
			}
			logger.InfoContext(ctx, "Dropped unique index", slog.String("index", idx.name))
		}
	}

	return nil
}

func optionalIndexes(fields repository.UniqueFields) []optionalIndex {
	return []optionalIndex{
		{name: model.AccountCompanyIndex, column: "company", enabled: fields.Company},
		{name: model.AccountSubjectIndex, column: "subject", enabled: fields.Subject},
	}
}
