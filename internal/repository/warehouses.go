package repository

import (
	"context"
	"fmt"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
)

// GetWarehouse returns the warehouse or nil, nil when it does not exist.
func (s *Store) GetWarehouse(ctx context.Context, id domain.WarehouseID) (*domain.Warehouse, error) {
	var w domain.Warehouse
	var wid string
	err := s.db.QueryRow(ctx,
		`SELECT id, name, city, latitude, longitude FROM warehouses WHERE id = $1`, string(id),
	).Scan(&wid, &w.Name, &w.City, &w.Location.Lat, &w.Location.Lng)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse %s: %w", id, err)
	}
	w.ID = domain.WarehouseID(wid)
	return &w, nil
}

// ListWarehouses returns every warehouse ordered by id.
func (s *Store) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, city, latitude, longitude FROM warehouses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Warehouse, 0)
	for rows.Next() {
		var w domain.Warehouse
		var wid string
		if err := rows.Scan(&wid, &w.Name, &w.City, &w.Location.Lat, &w.Location.Lng); err != nil {
			return nil, err
		}
		w.ID = domain.WarehouseID(wid)
		out = append(out, w)
	}
	return out, rows.Err()
}

// CreateWarehouse inserts a new warehouse.
func (s *Store) CreateWarehouse(ctx context.Context, w *domain.Warehouse) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO warehouses (id, name, city, latitude, longitude) VALUES ($1, $2, $3, $4, $5)`,
		string(w.ID), w.Name, w.City, w.Location.Lat, w.Location.Lng)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("create warehouse %s: %w", w.ID, apperr.ErrConflict)
		}
		return fmt.Errorf("create warehouse %s: %w", w.ID, err)
	}
	return nil
}
