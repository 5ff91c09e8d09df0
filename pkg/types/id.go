package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID идентификатор сущности бэкенда.
// Бэкенд отдает идентификаторы то числом, то строкой, поэтому декодируем оба варианта.
// Нечисловая строка декодируется в 0 (идентификатор отсутствует).
type ID int64

// ParseID разбирает идентификатор из строки, 0 если строка не число
func ParseID(s string) ID {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return ID(v)
}

// IsZero возвращает true для отсутствующего идентификатора
func (id ID) IsZero() bool {
	return id <= 0
}

// Int64 возвращает значение как int64
func (id ID) Int64() int64 {
	return int64(id)
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON принимает 42, "42" и null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ParseID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return fmt.Errorf("invalid id %s: %w", string(data), err)
		}
		v = int64(f)
	}
	*id = ID(v)
	return nil
}

// Scan реализует sql.Scanner
func (id *ID) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*id = 0
	case int64:
		*id = ID(v)
	case int32:
		*id = ID(v)
	case []byte:
		*id = ParseID(string(v))
	case string:
		*id = ParseID(v)
	default:
		return fmt.Errorf("unsupported id scan type %T", src)
	}
	return nil
}

// Value реализует driver.Valuer
func (id ID) Value() (driver.Value, error) {
	return int64(id), nil
}
