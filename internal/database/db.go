package database

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    _ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
    auth := user
    if pass != "" {
        auth = fmt.Sprintf("%s:%s", user, pass)
    }
    // parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
    dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
        auth, host, port, name)

    db, err := sql.Open("mysql", dsn)
    if err != nil {
        return nil, err
    }

    // Pool settings
    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    // Ping with timeout
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        return nil, err
    }
    return db, nil
}

// EnsureSchema creates the lockers and assignments tables when they do not
// exist yet.  The service bootstraps its own storage the same way it seeds
// the locker pool: idempotently, on startup, never touching existing rows.
// Note the code column is indexed but not unique -- codes are only unique
// among active assignments, and redeemed history may repeat them.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
    const lockers = `CREATE TABLE IF NOT EXISTS lockers (
        id BIGINT UNSIGNED NOT NULL,
        state ENUM('AVAILABLE','OCCUPIED') NOT NULL DEFAULT 'AVAILABLE',
        created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        PRIMARY KEY (id)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

    const assignments = `CREATE TABLE IF NOT EXISTS assignments (
        id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        code VARCHAR(8) NOT NULL,
        locker_id BIGINT UNSIGNED NOT NULL,
        client_id VARCHAR(128) NOT NULL DEFAULT '',
        email VARCHAR(255) NOT NULL DEFAULT '',
        first_name VARCHAR(128) NOT NULL DEFAULT '',
        last_name VARCHAR(128) NOT NULL DEFAULT '',
        phone VARCHAR(32) NOT NULL DEFAULT '',
        shift VARCHAR(32) NOT NULL DEFAULT '',
        issued_at DATETIME NOT NULL,
        expires_at DATETIME NOT NULL,
        redeemed TINYINT(1) NOT NULL DEFAULT 0,
        qr_url TEXT NOT NULL,
        PRIMARY KEY (id),
        KEY idx_assignments_code (code),
        KEY idx_assignments_locker_active (locker_id, redeemed)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

    if _, err := db.ExecContext(ctx, lockers); err != nil {
        return fmt.Errorf("create lockers table: %w", err)
    }
    if _, err := db.ExecContext(ctx, assignments); err != nil {
        return fmt.Errorf("create assignments table: %w", err)
    }
    return nil
}
