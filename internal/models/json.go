package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSON 类型定义，用于存储工位自由配置
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if text, textOK := value.(string); textOK {
			bytes = []byte(text)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, j)
}

// IntValue 读取整数配置项，缺失或类型不符时返回 fallback
func (j JSON) IntValue(key string, fallback int) int {
	if j == nil {
		return fallback
	}
	raw, ok := j[key]
	if !ok {
		return fallback
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
