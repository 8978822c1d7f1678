package database

import (
	"database/sql"
	"log"
)

// RunMigrations checks and applies necessary schema updates
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	// 1. Create the student_fees table if not exists
	err := createStudentFeesTable(db)
	if err != nil {
		return err
	}

	// 2. Add the paid_within_total check if not exists
	err = addPaidWithinTotalCheck(db)
	if err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createStudentFeesTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS student_fees (
			row_id            BIGSERIAL PRIMARY KEY,
			admission_number  BIGINT NOT NULL UNIQUE CHECK (admission_number > 0),
			student_name      TEXT NOT NULL,
			parent_mobile     TEXT NOT NULL,
			class             VARCHAR(10) NOT NULL,
			total_fee         BIGINT NOT NULL CHECK (total_fee >= 0),
			paid_amount       BIGINT NOT NULL DEFAULT 0 CHECK (paid_amount >= 0),
			remaining_balance BIGINT NOT NULL DEFAULT 0 CHECK (remaining_balance >= 0),
			payment_history   TEXT NOT NULL DEFAULT '',
			receipt_number    VARCHAR(16) NOT NULL DEFAULT '',
			payment_date      VARCHAR(10) NOT NULL DEFAULT ''
		);
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Printf("Failed to run migration for student_fees table: %v", err)
		return err
	}
	return nil
}

func addPaidWithinTotalCheck(db *sql.DB) error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1
				FROM information_schema.table_constraints
				WHERE table_name = 'student_fees'
				AND constraint_name = 'student_fees_paid_within_total'
			) THEN
				ALTER TABLE student_fees ADD CONSTRAINT student_fees_paid_within_total
					CHECK (paid_amount + remaining_balance = total_fee);
				RAISE NOTICE 'Added paid_within_total check to student_fees';
			END IF;
		END $$;
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Printf("Failed to run migration for paid_within_total check: %v", err)
		return err
	}
	return nil
}
