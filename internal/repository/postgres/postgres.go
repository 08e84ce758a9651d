package postgres

import (
	"database/sql"

	"sarpras-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.CategoryRepository
	repository.LocationRepository
	repository.AssetRepository
	repository.LoanRepository
	repository.ReturnRepository
	repository.ConditionLogRepository
	repository.ComplaintRepository
	repository.ActivityLogRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		CategoryRepository:     NewCategoryRepository(db),
		LocationRepository:     NewLocationRepository(db),
		AssetRepository:        NewAssetRepository(db),
		LoanRepository:         NewLoanRepository(db),
		ReturnRepository:       NewReturnRepository(db),
		ConditionLogRepository: NewConditionLogRepository(db),
		ComplaintRepository:    NewComplaintRepository(db),
		ActivityLogRepository:  NewActivityLogRepository(db),
	}
}
