package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
	"github.com/testbridge/testbridge-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "testbridge", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
	}
	log.Info("uuid-ossp extension enabled")

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Project{},
		&types.ProcessNode{},
		&types.ProcessStep{},
		&types.Requirement{},
		&types.DevelopmentItem{},
		&types.TestCase{},
		&types.TestSuite{},
		&types.CaseSuiteLink{},
		&types.TestPlan{},
		&types.ScopeDeclaration{},
		&types.PlanCaseEntry{},
		&types.TestExecution{},
		&types.Defect{},
		&types.DataPackage{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		ddl  string
	}{
		{
			name: "fk_process_node_parent_id",
			ddl: `ALTER TABLE "process_node"
				ADD CONSTRAINT "fk_process_node_parent_id"
				FOREIGN KEY ("parent_id")
				REFERENCES "process_node"("id")
				ON DELETE SET NULL`,
		},
		{
			name: "fk_case_suite_link_test_case_id",
			ddl: `ALTER TABLE "case_suite_link"
				ADD CONSTRAINT "fk_case_suite_link_test_case_id"
				FOREIGN KEY ("test_case_id")
				REFERENCES "test_case"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_case_suite_link_suite_id",
			ddl: `ALTER TABLE "case_suite_link"
				ADD CONSTRAINT "fk_case_suite_link_suite_id"
				FOREIGN KEY ("suite_id")
				REFERENCES "test_suite"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_scope_declaration_plan_id",
			ddl: `ALTER TABLE "scope_declaration"
				ADD CONSTRAINT "fk_scope_declaration_plan_id"
				FOREIGN KEY ("plan_id")
				REFERENCES "test_plan"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_plan_case_entry_plan_id",
			ddl: `ALTER TABLE "plan_case_entry"
				ADD CONSTRAINT "fk_plan_case_entry_plan_id"
				FOREIGN KEY ("plan_id")
				REFERENCES "test_plan"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_plan_case_entry_test_case_id",
			ddl: `ALTER TABLE "plan_case_entry"
				ADD CONSTRAINT "fk_plan_case_entry_test_case_id"
				FOREIGN KEY ("test_case_id")
				REFERENCES "test_case"("id")
				ON DELETE CASCADE`,
		},
	}
	for _, c := range constraints {
		var exists bool
		if err := s.db.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name,
		).Scan(&exists).Error; err != nil {
			return fmt.Errorf("Failed to check constraint %s: %w", c.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(c.ddl).Error; err != nil {
			return fmt.Errorf("Failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
