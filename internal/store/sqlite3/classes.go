package sqlite3

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/oklog/ulid/v2"

	"github.com/kristofer/son/pkg/image"
)

// LoadBaseEnvironment returns every (key, value) pair persisted in
// son_base_environment, decoded from JSON.
func (s *Store) LoadBaseEnvironment(ctx context.Context) (map[string]any, error) {
	query, _, err := s.goqu.From(s.tableBase).Select("key", "value").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite3: build base environment query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite3: load base environment: %w", err)
	}
	defer rows.Close()

	out := make(map[string]any)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("sqlite3: scan base environment row: %w", err)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			return nil, fmt.Errorf("sqlite3: decode base environment value %q: %w", key, err)
		}
		out[key] = decoded
	}
	return out, rows.Err()
}

// LoadMethods returns every persisted method across every class, joined
// against son_classes for the class name.
func (s *Store) LoadMethods(ctx context.Context) ([]image.StoredMethod, error) {
	query, _, err := s.goqu.From(s.tableMethods).
		Join(s.tableClasses, goqu.On(goqu.I("son_methods.class_id").Eq(goqu.I("son_classes.id")))).
		Select(
			goqu.I("son_classes.name").As("class_name"),
			goqu.I("son_methods.selector"),
			goqu.I("son_methods.arg_names"),
			goqu.I("son_methods.body"),
		).
		Order(goqu.I("son_classes.name").Asc(), goqu.I("son_methods.selector").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite3: build load methods query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite3: load methods: %w", err)
	}
	defer rows.Close()

	var out []image.StoredMethod
	for rows.Next() {
		var className, selector, argNamesJSON, bodyJSON string
		if err := rows.Scan(&className, &selector, &argNamesJSON, &bodyJSON); err != nil {
			return nil, fmt.Errorf("sqlite3: scan method row: %w", err)
		}
		m, err := decodeMethod(className, selector, argNamesJSON, bodyJSON)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func decodeMethod(className, selector, argNamesJSON, bodyJSON string) (image.StoredMethod, error) {
	var argNames []string
	if err := json.Unmarshal([]byte(argNamesJSON), &argNames); err != nil {
		return image.StoredMethod{}, fmt.Errorf("sqlite3: decode argNames for %s>>%s: %w", className, selector, err)
	}
	var body any
	if err := json.Unmarshal([]byte(bodyJSON), &body); err != nil {
		return image.StoredMethod{}, fmt.Errorf("sqlite3: decode body for %s>>%s: %w", className, selector, err)
	}
	return image.StoredMethod{
		ClassName: className,
		Selector:  selector,
		ArgNames:  argNames,
		Body:      body,
	}, nil
}

// SaveMethod ensures the class exists, then insert-or-replaces the
// (class, selector) method. Method ids are regenerated on every save
// rather than preserved across updates — the simpler, API-observable
// choice, since no caller depends on a method id surviving a re-save.
func (s *Store) SaveMethod(ctx context.Context, m image.StoredMethod) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite3: begin save transaction: %w", err)
	}
	defer tx.Rollback()

	classID, err := s.ensureClassTx(ctx, tx, m.ClassName)
	if err != nil {
		return err
	}

	argNamesJSON, err := json.Marshal(m.ArgNames)
	if err != nil {
		return fmt.Errorf("sqlite3: marshal argNames: %w", err)
	}
	bodyJSON, err := json.Marshal(m.Body)
	if err != nil {
		return fmt.Errorf("sqlite3: marshal body: %w", err)
	}

	deleteQuery, _, err := s.goqu.Delete(s.tableMethods).
		Where(goqu.I("class_id").Eq(classID), goqu.I("selector").Eq(m.Selector)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("sqlite3: build delete method query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery); err != nil {
		return fmt.Errorf("sqlite3: delete existing method %s>>%s: %w", m.ClassName, m.Selector, err)
	}

	insertQuery, _, err := s.goqu.Insert(s.tableMethods).Rows(goqu.Record{
		"id":        ulid.Make().String(),
		"class_id":  classID,
		"selector":  m.Selector,
		"arg_names": string(argNamesJSON),
		"body":      string(bodyJSON),
	}).ToSQL()
	if err != nil {
		return fmt.Errorf("sqlite3: build insert method query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery); err != nil {
		return fmt.Errorf("sqlite3: insert method %s>>%s: %w", m.ClassName, m.Selector, err)
	}

	return tx.Commit()
}

// ensureClassTx returns className's id, creating the row if absent.
func (s *Store) ensureClassTx(ctx context.Context, tx *sql.Tx, className string) (string, error) {
	selectQuery, _, err := s.goqu.From(s.tableClasses).
		Select("id").
		Where(goqu.I("name").Eq(className)).
		ToSQL()
	if err != nil {
		return "", fmt.Errorf("sqlite3: build select class query: %w", err)
	}

	var id string
	err = tx.QueryRowContext(ctx, selectQuery).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("sqlite3: lookup class %q: %w", className, err)
	}

	id = ulid.Make().String()
	insertQuery, _, err := s.goqu.Insert(s.tableClasses).Rows(goqu.Record{
		"id":   id,
		"name": className,
	}).ToSQL()
	if err != nil {
		return "", fmt.Errorf("sqlite3: build insert class query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery); err != nil {
		return "", fmt.Errorf("sqlite3: create class %q: %w", className, err)
	}
	return id, nil
}

// ListClasses returns every class name, sorted.
func (s *Store) ListClasses(ctx context.Context) ([]string, error) {
	query, _, err := s.goqu.From(s.tableClasses).Select("name").Order(goqu.I("name").Asc()).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite3: build list classes query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite3: list classes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite3: scan class row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListMethodSelectors returns the selectors persisted for className,
// sorted. ok is false if the class row does not exist.
func (s *Store) ListMethodSelectors(ctx context.Context, className string) ([]string, bool, error) {
	classID, found, err := s.classID(ctx, className)
	if err != nil || !found {
		return nil, found, err
	}

	query, _, err := s.goqu.From(s.tableMethods).
		Select("selector").
		Where(goqu.I("class_id").Eq(classID)).
		Order(goqu.I("selector").Asc()).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("sqlite3: build list selectors query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, false, fmt.Errorf("sqlite3: list selectors for %q: %w", className, err)
	}
	defer rows.Close()

	var selectors []string
	for rows.Next() {
		var selector string
		if err := rows.Scan(&selector); err != nil {
			return nil, false, fmt.Errorf("sqlite3: scan selector row: %w", err)
		}
		selectors = append(selectors, selector)
	}
	return selectors, true, rows.Err()
}

// GetMethod returns one persisted method. ok is false if either the
// class or the selector is unknown.
func (s *Store) GetMethod(ctx context.Context, className, selector string) (image.StoredMethod, bool, error) {
	classID, found, err := s.classID(ctx, className)
	if err != nil || !found {
		return image.StoredMethod{}, found, err
	}

	query, _, err := s.goqu.From(s.tableMethods).
		Select("arg_names", "body").
		Where(goqu.I("class_id").Eq(classID), goqu.I("selector").Eq(selector)).
		ToSQL()
	if err != nil {
		return image.StoredMethod{}, false, fmt.Errorf("sqlite3: build get method query: %w", err)
	}

	var argNamesJSON, bodyJSON string
	err = s.db.QueryRowContext(ctx, query).Scan(&argNamesJSON, &bodyJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return image.StoredMethod{}, false, nil
	}
	if err != nil {
		return image.StoredMethod{}, false, fmt.Errorf("sqlite3: get method %s>>%s: %w", className, selector, err)
	}

	m, err := decodeMethod(className, selector, argNamesJSON, bodyJSON)
	return m, true, err
}

func (s *Store) classID(ctx context.Context, className string) (string, bool, error) {
	query, _, err := s.goqu.From(s.tableClasses).
		Select("id").
		Where(goqu.I("name").Eq(className)).
		ToSQL()
	if err != nil {
		return "", false, fmt.Errorf("sqlite3: build class lookup query: %w", err)
	}
	var id string
	err = s.db.QueryRowContext(ctx, query).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite3: lookup class %q: %w", className, err)
	}
	return id, true, nil
}
