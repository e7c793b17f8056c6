package snapshot

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kafanica/kafanica-backend/pkg/db/models"
	pkgerrors "github.com/kafanica/kafanica-backend/pkg/errors"
)

// Snapshot record names. They match the original storage keys so state saved
// by earlier versions of the tool keeps loading.
const (
	NameInventory = "drinkInventory"
	NameOpenTabs  = "guestTabs"
	NameHistory   = "guestHistory"
)

// Repository manages persistence for named snapshot records.
type Repository interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, payload []byte) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a snapshot repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Load(ctx context.Context, name string) ([]byte, error) {
	var row models.Snapshot
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "snapshot not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading snapshot")
	}
	return row.Payload, nil
}

func (r *repository) Save(ctx context.Context, name string, payload []byte) error {
	row := models.Snapshot{Name: name, Payload: payload}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving snapshot")
	}
	return nil
}
