package xplangml

import (
	"fmt"
	"strings"
)

// SchemaLookupError 表示某个类名或XML标签在注册表中不存在
// 写方向属于程序内部错误，读方向可跳过并记录警告
type SchemaLookupError struct {
	Name string
}

func (e *SchemaLookupError) Error() string {
	return fmt.Sprintf("schema registry has no entry for %q", e.Name)
}

// EnumDecodeError 表示枚举编码无法解析为任何已知成员
type EnumDecodeError struct {
	Wert     string
	TypName  string
	Attribut string
}

func (e *EnumDecodeError) Error() string {
	return fmt.Sprintf("unknown enum code %q for %s.%s", e.Wert, e.TypName, e.Attribut)
}

// GeometryDecodeError 表示几何数据损坏或SRID不一致
type GeometryDecodeError struct {
	Grund string
	Err   error
}

func (e *GeometryDecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geometry decode failed: %s: %v", e.Grund, e.Err)
	}
	return fmt.Sprintf("geometry decode failed: %s", e.Grund)
}

func (e *GeometryDecodeError) Unwrap() error {
	return e.Err
}

// ArchiveFormatError 压缩包格式错误：空包、缺少gml成员或扩展名不支持
// 在import入口立即失败，不做任何解析
type ArchiveFormatError struct {
	Grund string
}

func (e *ArchiveFormatError) Error() string {
	return "invalid archive: " + e.Grund
}

// ImportFehler 聚合整个文档读取过程中收集到的全部对象级错误
// 单个对象解码失败不会中断解析，解析完成后统一上报
type ImportFehler struct {
	Fehler []error
}

func (e *ImportFehler) Error() string {
	msgs := make([]string, 0, len(e.Fehler))
	for _, f := range e.Fehler {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("import finished with %d error(s):\n%s", len(e.Fehler), strings.Join(msgs, "\n"))
}
