package dac

import "fmt"

// Datasource is one named datasource definition.
type Datasource struct {
	Default bool           `json:"default,omitempty" yaml:"default,omitempty"`
	Kind    string         `json:"kind" yaml:"kind"`
	Spec    DatasourceSpec `json:"spec" yaml:"spec"`
}

// DatasourceSpec carries the connection details per datasource kind.
type DatasourceSpec struct {
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// DatasourceOption configures a datasource definition.
type DatasourceOption func(*Datasource) error

// AddDatasource registers a named datasource on the dashboard.
func AddDatasource(name string, opts ...DatasourceOption) Option {
	return func(b *Builder) error {
		if name == "" {
			return fmt.Errorf("datasource name is required")
		}
		ds := Datasource{}
		for _, opt := range opts {
			if err := opt(&ds); err != nil {
				return fmt.Errorf("datasource %q: %w", name, err)
			}
		}
		if ds.Kind == "" {
			return fmt.Errorf("datasource %q has no kind", name)
		}
		if b.Dashboard.Spec.Datasources == nil {
			b.Dashboard.Spec.Datasources = map[string]Datasource{}
		}
		if _, exists := b.Dashboard.Spec.Datasources[name]; exists {
			return fmt.Errorf("duplicate datasource %q", name)
		}
		b.Dashboard.Spec.Datasources[name] = ds
		return nil
	}
}

// Default marks the datasource as the dashboard default.
func Default(isDefault bool) DatasourceOption {
	return func(ds *Datasource) error {
		ds.Default = isDefault
		return nil
	}
}

// ClickHouse configures a ClickHouse datasource reached via DSN.
func ClickHouse(dsn string) DatasourceOption {
	return func(ds *Datasource) error {
		if dsn == "" {
			return fmt.Errorf("clickhouse dsn is required")
		}
		ds.Kind = "ClickHouseDatasource"
		ds.Spec.DSN = dsn
		return nil
	}
}
