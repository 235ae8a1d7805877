package logger

type Field struct {
	Key   string
	Value interface{}
}

// 日志字段收敛

func Module(m string) Field {
	return Field{
		Key:   "module",
		Value: m,
	}
}

func Path(p string) Field {
	return Field{
		Key:   "path",
		Value: p,
	}
}

func Archiver(name string) Field {
	return Field{
		Key:   "archiver",
		Value: name,
	}
}

func Group(name string) Field {
	return Field{
		Key:   "group",
		Value: name,
	}
}

func Error(err error) Field {
	return Field{
		Key:   "error",
		Value: err,
	}
}

func Fields(fs ...Field) map[string]interface{} {
	m := make(map[string]interface{}, len(fs))
	for _, f := range fs {
		m[f.Key] = f.Value
	}
	return m
}
