package main

import (
	"database/sql"

	accountservice "placement/internal/account/service"
	accountstore "placement/internal/account/store"
	driveservice "placement/internal/drive/service"
	drivestore "placement/internal/drive/store"
	ledgerservice "placement/internal/ledger/service"
	ledgerstore "placement/internal/ledger/store"
	notificationservice "placement/internal/notification/service"
	notificationstore "placement/internal/notification/store"
	scheduleservice "placement/internal/schedule/service"
	schedulestore "placement/internal/schedule/store"
	audit "placement/pkg/platform/audit"
	auditmemory "placement/pkg/platform/audit/store/memory"
	auditpostgres "placement/pkg/platform/audit/store/postgres"
)

// stores groups one backend per aggregate. Every service reads and writes
// through the same backend so ledger uniqueness and roster locking hold across
// the whole process.
type stores struct {
	accounts      accountservice.Store
	drives        driveservice.Store
	ledger        ledgerservice.Store
	schedules     scheduleservice.Store
	notifications notificationservice.Store
	audit         audit.Store
}

func newPostgresStores(db *sql.DB) stores {
	return stores{
		accounts:      accountstore.NewPostgres(db),
		drives:        drivestore.NewPostgres(db),
		ledger:        ledgerstore.NewPostgres(db),
		schedules:     schedulestore.NewPostgres(db),
		notifications: notificationstore.NewPostgres(db),
		audit:         auditpostgres.New(db),
	}
}

func newMemoryStores() stores {
	return stores{
		accounts:      accountstore.NewInMemory(),
		drives:        drivestore.NewInMemory(),
		ledger:        ledgerstore.NewInMemory(),
		schedules:     schedulestore.NewInMemory(),
		notifications: notificationstore.NewInMemory(),
		audit:         auditmemory.NewInMemoryStore(),
	}
}
