package model

import (
	"bytes"
	"encoding/json"
)

// Cell 单元格，保留列顺序
type Cell struct {
	Column string
	Value  interface{}
}

// Row 有序的 列名 -> 值 映射，序列化为按列顺序输出键的 JSON 对象
type Row []Cell

func (r Row) Get(column string) (interface{}, bool) {
	for _, c := range r {
		if c.Column == column {
			return c.Value, true
		}
	}
	return nil, false
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Column)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// QueryResult 查询结果
// swagger:model
type QueryResult struct {
	Columns   []string `json:"columns"`
	Rows      []Row    `json:"result"`
	Truncated bool     `json:"truncated"`
}

// ColumnInfo 列信息
type ColumnInfo struct {
	Name       string `json:"name" db:"name"`
	Type       string `json:"type" db:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

// ForeignKey 外键信息
type ForeignKey struct {
	Column           string `json:"column"`
	ReferencesTable  string `json:"references_table"`
	ReferencesColumn string `json:"references_column"`
}

// TableSchema 单表结构
type TableSchema struct {
	Columns     []ColumnInfo `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
}

// SchemaDescriptor 表名 -> 表结构
// swagger:model
type SchemaDescriptor map[string]TableSchema

// SampleData 示例数据
// swagger:model
type SampleData struct {
	Table string `json:"table"`
	Rows  []Row  `json:"rows"`
}

// TableStats 单表行数
type TableStats struct {
	RowCount int64 `json:"row_count"`
}
