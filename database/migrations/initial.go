package migrations

import (
	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_fabrics_table", &CreateFabricsTable{})
	migration.Register("20260101000001_create_admin_users_table", &CreateAdminUsersTable{})
}

// -------- 0001: fabrics --------

type CreateFabricsTable struct{}

// sqlite only reserves ids with AUTOINCREMENT, which gorm never emits for a
// primary key; without it a deleted newest id is handed out again.
const sqliteFabricsDDL = `CREATE TABLE IF NOT EXISTS fabrics (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	name            varchar(255) NOT NULL,
	description     text,
	price_per_meter real NOT NULL,
	category        varchar(100) NOT NULL,
	color           varchar(100) NOT NULL DEFAULT '',
	material        varchar(100) NOT NULL DEFAULT '',
	width           integer NOT NULL DEFAULT 150,
	image_url       varchar(1024) NOT NULL DEFAULT '',
	stock           integer NOT NULL DEFAULT 0,
	featured        numeric NOT NULL DEFAULT 0,
	created_at      datetime NOT NULL,
	updated_at      datetime NOT NULL
)`

func (m *CreateFabricsTable) Up(db *gorm.DB) error {
	if db.Dialector.Name() != "sqlite" {
		return db.AutoMigrate(&models.Fabric{})
	}
	for _, stmt := range []string{
		sqliteFabricsDDL,
		"CREATE INDEX IF NOT EXISTS idx_fabrics_category ON fabrics(category)",
		"CREATE INDEX IF NOT EXISTS idx_fabrics_featured ON fabrics(featured)",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *CreateFabricsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("fabrics")
}

// -------- 0002: admin_users --------

type CreateAdminUsersTable struct{}

func (m *CreateAdminUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.AdminUser{})
}

func (m *CreateAdminUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("admin_users")
}
