package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_blood_groups_table", &table{model: &models.BloodGroup{}})
	migration.Register("20260301000001_create_users_table", &table{model: &models.User{}})
	migration.Register("20260301000002_create_blood_donations_table", &table{model: &models.BloodDonation{}})
	migration.Register("20260301000003_create_blood_requests_table", &table{model: &models.BloodRequest{}})
	migration.Register("20260301000004_create_blood_inventory_table", &table{model: &models.BloodInventory{}})
	migration.Register("20260301000005_create_id_sequences_table", &table{model: &models.IDSequence{}})
}

// table creates one model's table on Up and drops it on Down.
type table struct {
	model interface{}
}

func (m *table) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *table) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.model)
}
