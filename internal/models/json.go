package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// FileURLs maps an upload field name to the public URL of the stored object
type FileURLs map[string]string

// Value serializes the map as a JSON object
func (f FileURLs) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(f))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan decodes a JSON object column
func (f *FileURLs) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*f = FileURLs{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("FileURLs: unsupported scan type %T", value)
	}
	m := map[string]string{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
	}
	*f = FileURLs(m)
	return nil
}

// GormDBDataType ensures the correct data type is used for each database driver.
// MSSQL does not support the 'json' data type.
func (FileURLs) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
