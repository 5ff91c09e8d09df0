package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Phone номер телефона клиента.
// Бэкенд хранит номер числом, но встречаются и строки; 0 и null означают отсутствие номера.
type Phone string

// IsEmpty возвращает true, если номера нет
func (p Phone) IsEmpty() bool {
	return p == ""
}

func (p Phone) String() string {
	return string(p)
}

// UnmarshalJSON принимает 612345678, "612345678" и null
func (p *Phone) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*p = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = normalizePhone(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid phone %s: %w", string(data), err)
	}
	*p = normalizePhone(n.String())
	return nil
}

// MarshalJSON отдает номер строкой, пустой номер - null
func (p Phone) MarshalJSON() ([]byte, error) {
	if p.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// Scan реализует sql.Scanner (bigint или text)
func (p *Phone) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = ""
	case int64:
		*p = normalizePhone(fmt.Sprintf("%d", v))
	case []byte:
		*p = normalizePhone(string(v))
	case string:
		*p = normalizePhone(v)
	default:
		return fmt.Errorf("unsupported phone scan type %T", src)
	}
	return nil
}

// Value реализует driver.Valuer
func (p Phone) Value() (driver.Value, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	return string(p), nil
}

func normalizePhone(s string) Phone {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return ""
	}
	return Phone(s)
}
