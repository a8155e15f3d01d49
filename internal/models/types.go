package models

import (
	"database/sql/driver"
	"encoding/json"
)

// UintArray 无符号整数数组类型，以 JSON 数组存储（如折扣适用的服务ID集合）
type UintArray []uint

// Value 实现 driver.Valuer 接口
func (a UintArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan 实现 sql.Scanner 接口
func (a *UintArray) Scan(value interface{}) error {
	if value == nil {
		*a = UintArray{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*a = UintArray{}
			return nil
		}
		return json.Unmarshal(v, a)
	case string:
		if v == "" {
			*a = UintArray{}
			return nil
		}
		return json.Unmarshal([]byte(v), a)
	default:
		*a = UintArray{}
		return nil
	}
}

// Contains 判断集合是否包含指定ID
func (a UintArray) Contains(id uint) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}
