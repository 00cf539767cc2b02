package xplangml

import "fmt"

// Version XPlanGML格式版本，数值便于比较（410 = 4.1, 600 = 6.0）
type Version int

const (
	Version41 Version = 410
	Version50 Version = 500
	Version51 Version = 510
	Version52 Version = 520
	Version54 Version = 540
	Version60 Version = 600

	// VersionOffen 属性描述符用，表示无上限
	VersionOffen Version = 9999
)

var versionNames = map[Version]string{
	Version41: "4.1",
	Version50: "5.0",
	Version51: "5.1",
	Version52: "5.2",
	Version54: "5.4",
	Version60: "6.0",
}

func (v Version) String() string {
	if s, ok := versionNames[v]; ok {
		return s
	}
	return fmt.Sprintf("Version(%d)", int(v))
}

// ParseVersion 解析"5.4"之类的版本串
func ParseVersion(s string) (Version, error) {
	for v, name := range versionNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unsupported XPlanGML version %q", s)
}

// 命名空间常量
const (
	NsGML   = "http://www.opengis.net/gml/3.2"
	NsXLink = "http://www.w3.org/1999/xlink"
	NsXSI   = "http://www.w3.org/2001/XMLSchema-instance"
)

// Namespace 版本对应的xplan命名空间URI
func (v Version) Namespace() string {
	switch v {
	case Version41:
		return "http://www.xplanung.de/xplangml/4/1"
	case Version50:
		return "http://www.xplanung.de/xplangml/5/0"
	case Version51:
		return "http://www.xplanung.de/xplangml/5/1"
	case Version52:
		return "http://www.xplanung.de/xplangml/5/2"
	case Version54:
		return "http://www.xplanung.de/xplangml/5/4"
	case Version60:
		return "http://www.xplanung.de/xplangml/6/0"
	}
	return ""
}

// NamespaceToVersion 根据命名空间URI反查版本，读方向用
func NamespaceToVersion(ns string) (Version, bool) {
	for v := range versionNames {
		if v.Namespace() == ns {
			return v, true
		}
	}
	return 0, false
}
