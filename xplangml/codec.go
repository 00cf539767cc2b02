package xplangml

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const datumFormat = "2006-01-02"

// encodeWert 标量值编码为元素文本
// 数字不带本地化分隔符，布尔输出字面量true/false，日期为ISO日历日期
// 枚举成员在目标版本不可用时返回ok=false，由调用方跳过
func encodeWert(a *AttributeDescriptor, typName string, wert any, v Version) (string, bool, error) {
	switch a.Art {
	case WertText, WertTextListe:
		s, ok := wert.(string)
		if !ok {
			return "", false, fmt.Errorf("%s.%s: expected string, got %T", typName, a.Name, wert)
		}
		return s, true, nil
	case WertGanzzahl:
		switch z := wert.(type) {
		case int:
			return strconv.Itoa(z), true, nil
		case int64:
			return strconv.FormatInt(z, 10), true, nil
		case float64:
			return strconv.Itoa(int(z)), true, nil
		}
		return "", false, fmt.Errorf("%s.%s: expected int, got %T", typName, a.Name, wert)
	case WertDezimal:
		switch z := wert.(type) {
		case float64:
			return strconv.FormatFloat(z, 'f', -1, 64), true, nil
		case int:
			return strconv.Itoa(z), true, nil
		}
		return "", false, fmt.Errorf("%s.%s: expected float, got %T", typName, a.Name, wert)
	case WertBoolesch:
		b, ok := wert.(bool)
		if !ok {
			return "", false, fmt.Errorf("%s.%s: expected bool, got %T", typName, a.Name, wert)
		}
		if b {
			return "true", true, nil
		}
		return "false", true, nil
	case WertDatum:
		s, ok := wert.(string)
		if !ok {
			return "", false, fmt.Errorf("%s.%s: expected date string, got %T", typName, a.Name, wert)
		}
		t, err := time.Parse(datumFormat, s)
		if err != nil {
			return "", false, fmt.Errorf("%s.%s: bad date %q: %w", typName, a.Name, s, err)
		}
		return t.Format(datumFormat), true, nil
	case WertEnum, WertEnumListe:
		code, ok := toInt(wert)
		if !ok {
			return "", false, fmt.Errorf("%s.%s: expected enum code, got %T", typName, a.Name, wert)
		}
		m, found := a.Enum.MitgliedByCode(code)
		if !found {
			return "", false, &EnumDecodeError{Wert: strconv.Itoa(code), TypName: typName, Attribut: a.Name}
		}
		if m.AbVersion != 0 && v < m.AbVersion {
			// 成员在目标版本尚不存在，按版本门控跳过
			return "", false, nil
		}
		return strconv.Itoa(m.Code), true, nil
	case WertBinaer:
		b, ok := wert.([]byte)
		if !ok {
			return "", false, fmt.Errorf("%s.%s: expected []byte, got %T", typName, a.Name, wert)
		}
		return base64.StdEncoding.EncodeToString(b), true, nil
	}
	return "", false, fmt.Errorf("%s.%s: no scalar codec for kind %d", typName, a.Name, a.Art)
}

// decodeWert 元素文本解码为标量值
// 读方向宽松：布尔额外接受1/0，日期接受带时间部分的输入并截断
func decodeWert(a *AttributeDescriptor, typName string, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch a.Art {
	case WertText, WertTextListe:
		return text, nil
	case WertGanzzahl:
		z, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: bad integer %q", typName, a.Name, text)
		}
		return z, nil
	case WertDezimal:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: bad decimal %q", typName, a.Name, text)
		}
		return f, nil
	case WertBoolesch:
		switch text {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%s.%s: bad boolean %q", typName, a.Name, text)
	case WertDatum:
		if len(text) > 10 && text[10] == 'T' {
			text = text[:10]
		}
		t, err := time.Parse(datumFormat, text)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: bad date %q", typName, a.Name, text)
		}
		return t.Format(datumFormat), nil
	case WertEnum, WertEnumListe:
		return decodeEnum(a, typName, text)
	case WertBinaer:
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: bad base64 payload: %w", typName, a.Name, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%s.%s: no scalar codec for kind %d", typName, a.Name, a.Art)
}

// decodeEnum 枚举解码，接受数字编码和符号名两种写法
func decodeEnum(a *AttributeDescriptor, typName string, text string) (int, error) {
	if code, err := strconv.Atoi(text); err == nil {
		if m, ok := a.Enum.MitgliedByCode(code); ok {
			return m.Code, nil
		}
		return 0, &EnumDecodeError{Wert: text, TypName: typName, Attribut: a.Name}
	}
	if m, ok := a.Enum.MitgliedByName(text); ok {
		return m.Code, nil
	}
	return 0, &EnumDecodeError{Wert: text, TypName: typName, Attribut: a.Name}
}

func toInt(wert any) (int, bool) {
	switch z := wert.(type) {
	case int:
		return z, true
	case int64:
		return int(z), true
	case float64:
		return int(z), true
	}
	return 0, false
}
