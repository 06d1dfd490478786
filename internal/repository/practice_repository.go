package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sql_practice_backend/internal/model"
	"sql_practice_backend/internal/util"
	"strings"

	"github.com/jmoiron/sqlx"
)

// PracticeRepository 练习库访问，连接为只读
type PracticeRepository struct {
	DB      *sqlx.DB
	maxRows int
}

func NewPracticeRepository(db *sqlx.DB, maxRows int) *PracticeRepository {
	return &PracticeRepository{DB: db, maxRows: maxRows}
}

type pragmaColumn struct {
	CID       int            `db:"cid"`
	Name      string         `db:"name"`
	Type      string         `db:"type"`
	NotNull   int            `db:"notnull"`
	DfltValue sql.NullString `db:"dflt_value"`
	PK        int            `db:"pk"`
}

type pragmaForeignKey struct {
	Table string         `db:"table"`
	From  string         `db:"from"`
	To    sql.NullString `db:"to"`
}

// Execute 执行查询，结果保持列顺序，超过 maxRows 的行会被截断
func (r *PracticeRepository) Execute(ctx context.Context, query string) (*model.QueryResult, error) {
	rows, err := r.DB.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collect(rows, r.maxRows)
}

func (r *PracticeRepository) collect(rows *sqlx.Rows, limit int) (*model.QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &model.QueryResult{Columns: uniqueColumns(columns), Rows: []model.Row{}}
	for rows.Next() {
		if limit > 0 && len(result.Rows) >= limit {
			result.Truncated = true
			break
		}
		values, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, toRow(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// toRow 重名列只保留一个键（位置取首次出现，值取最后一次）
func toRow(columns []string, values []interface{}) model.Row {
	row := make(model.Row, 0, len(columns))
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		v := jsonSafe(values[i])
		if j, ok := index[col]; ok {
			row[j].Value = v
			continue
		}
		index[col] = len(row)
		row = append(row, model.Cell{Column: col, Value: v})
	}
	return row
}

// jsonSafe 文本列可能以 []byte 返回；JSON 无法表示的浮点数转为字符串
func jsonSafe(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case float64:
		switch {
		case math.IsNaN(x):
			return "NaN"
		case math.IsInf(x, 1):
			return "Infinity"
		case math.IsInf(x, -1):
			return "-Infinity"
		}
	}
	return v
}

func uniqueColumns(columns []string) []string {
	seen := make(map[string]bool, len(columns))
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// TableNames 练习库中的表，按名称排序，不含 sqlite 内部表
func (r *PracticeRepository) TableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.DB.SelectContext(ctx, &names,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	return names, err
}

func (r *PracticeRepository) TableExists(ctx context.Context, table string) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
	return count > 0, err
}

// Schema 读取全部表结构
func (r *PracticeRepository) Schema(ctx context.Context) (model.SchemaDescriptor, error) {
	tables, err := r.TableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	schema := make(model.SchemaDescriptor, len(tables))
	for _, table := range tables {
		ts, err := r.tableSchema(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", table, err)
		}
		schema[table] = ts
	}
	return schema, nil
}

func (r *PracticeRepository) tableSchema(ctx context.Context, table string) (model.TableSchema, error) {
	var cols []pragmaColumn
	if err := r.DB.SelectContext(ctx, &cols,
		`SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, table); err != nil {
		return model.TableSchema{}, err
	}

	var fks []pragmaForeignKey
	if err := r.DB.SelectContext(ctx, &fks,
		`SELECT "table", "from", "to" FROM pragma_foreign_key_list(?)`, table); err != nil {
		return model.TableSchema{}, err
	}

	ts := model.TableSchema{
		Columns:     make([]model.ColumnInfo, 0, len(cols)),
		ForeignKeys: make([]model.ForeignKey, 0, len(fks)),
	}
	for _, c := range cols {
		ts.Columns = append(ts.Columns, model.ColumnInfo{
			Name:       c.Name,
			Type:       c.Type,
			Nullable:   c.NotNull == 0,
			PrimaryKey: c.PK > 0,
		})
	}
	for _, fk := range fks {
		ts.ForeignKeys = append(ts.ForeignKeys, model.ForeignKey{
			Column:           fk.From,
			ReferencesTable:  fk.Table,
			ReferencesColumn: fk.To.String,
		})
	}
	return ts, nil
}

// SampleData 读取表的前 limit 行，表必须存在于练习库
func (r *PracticeRepository) SampleData(ctx context.Context, table string, limit int) (*model.SampleData, error) {
	exists, err := r.TableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &util.TableNotFoundError{Table: table}
	}

	rows, err := r.DB.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT ?", quoteIdent(table)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result, err := r.collect(rows, 0)
	if err != nil {
		return nil, err
	}
	return &model.SampleData{Table: table, Rows: result.Rows}, nil
}

// RowCounts 各表行数
func (r *PracticeRepository) RowCounts(ctx context.Context) (map[string]model.TableStats, error) {
	tables, err := r.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]model.TableStats, len(tables))
	for _, table := range tables {
		var n int64
		if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+quoteIdent(table)); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats[table] = model.TableStats{RowCount: n}
	}
	return stats, nil
}

// Ping 健康检查
func (r *PracticeRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
