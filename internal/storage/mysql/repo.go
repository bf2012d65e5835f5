package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"hotel_indexes/internal/adapters/observability"
	"hotel_indexes/internal/domain"
)

const (
	driver = "mysql"
	table  = "hotels"

	errDupKeyName = 1061 // ER_DUP_KEYNAME
)

var identRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the hotels table if it does not exist.
func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createHotelsSQL)
	return err
}

func (r *Repo) Insert(ctx context.Context, h domain.Hotel) (id string, err error) {
	defer observability.ObserveStore(driver, "insert", time.Now(), &err)
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Name,
		h.Location,
		h.Price,
		h.Rooms,
		valStr(h.Description),
	)
	if err != nil {
		return "", err
	}
	n, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

func (r *Repo) Find(ctx context.Context, f domain.HotelFilter) (out []domain.Hotel, err error) {
	defer observability.ObserveStore(driver, "find", time.Now(), &err)
	where, args, err := whereFor(f)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, selectHotelsSQL+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out = []domain.Hotel{}
	for rows.Next() {
		var (
			h    domain.Hotel
			id   int64
			desc sql.NullString
		)
		if err := rows.Scan(&id, &h.Name, &h.Location, &h.Price, &h.Rooms, &desc); err != nil {
			return nil, err
		}
		h.ID = strconv.FormatInt(id, 10)
		if desc.Valid {
			h.Description = desc.String
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func whereFor(f domain.HotelFilter) (string, []any, error) {
	switch f.Kind {
	case domain.FilterLocation:
		return whereLocation, []any{f.Location}, nil
	case domain.FilterLocationPrice:
		return whereLocationPrice, []any{f.Location, f.Price}, nil
	case domain.FilterText:
		return whereText, []any{f.Search}, nil
	case domain.FilterPriceRange:
		op, ok := map[domain.Comparison]string{
			"":            ">",
			domain.CmpGT:  ">",
			domain.CmpGTE: ">=",
			domain.CmpLT:  "<",
			domain.CmpLTE: "<=",
		}[f.Op]
		if !ok {
			return "", nil, fmt.Errorf("mysql: invalid comparison %q", f.Op)
		}
		return "price " + op + " ? ORDER BY id", []any{f.Price}, nil
	}
	return "", nil, fmt.Errorf("mysql: unsupported filter kind %q", f.Kind)
}

// EnsureIndex consults information_schema first. A concurrent creator that
// wins the race makes CREATE INDEX fail with ER_DUP_KEYNAME, which is
// reported as "already exists".
func (r *Repo) EnsureIndex(ctx context.Context, spec domain.IndexSpec) (created bool, err error) {
	defer observability.ObserveStore(driver, "ensure_index", time.Now(), &err)
	var n int
	if err := r.db.QueryRowContext(ctx, countIndexSQL, table, spec.Name).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	ddl, err := createIndexDDL(spec)
	if err != nil {
		return false, err
	}
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		var me *mysqldrv.MySQLError
		if errors.As(err, &me) && me.Number == errDupKeyName {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func createIndexDDL(spec domain.IndexSpec) (string, error) {
	if !identRe.MatchString(spec.Name) || len(spec.Fields) == 0 {
		return "", fmt.Errorf("mysql: invalid index spec %+v", spec)
	}
	cols := make([]string, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		if !identRe.MatchString(f) {
			return "", fmt.Errorf("mysql: invalid column %q", f)
		}
		cols = append(cols, "`"+f+"`")
	}
	kind := "INDEX"
	if spec.Kind == domain.IndexText {
		kind = "FULLTEXT INDEX"
	}
	return fmt.Sprintf("CREATE %s `%s` ON %s (%s)", kind, spec.Name, table, strings.Join(cols, ", ")), nil
}

func (r *Repo) ListIndexes(ctx context.Context) (out []domain.IndexSpec, err error) {
	defer observability.ObserveStore(driver, "list_indexes", time.Now(), &err)
	rows, err := r.db.QueryContext(ctx, listIndexesSQL, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out = []domain.IndexSpec{}
	for rows.Next() {
		var name, typ, cols string
		if err := rows.Scan(&name, &typ, &cols); err != nil {
			return nil, err
		}
		spec := domain.IndexSpec{Name: name, Fields: strings.Split(cols, ",")}
		switch {
		case strings.EqualFold(typ, "FULLTEXT"):
			spec.Kind = domain.IndexText
		case len(spec.Fields) > 1:
			spec.Kind = domain.IndexCompound
		default:
			spec.Kind = domain.IndexSingle
		}
		out = append(out, spec)
	}
	return out, rows.Err()
}

func (r *Repo) Close(context.Context) error { return r.db.Close() }
