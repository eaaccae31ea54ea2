package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"whoisrecord/record"
)

// CatalogExtension 追加到目录中的名称
//
//	properties:
//	  - dnssec
//	methods:
//	  - response_error
type CatalogExtension struct {
	Properties []string `yaml:"properties"`
	Methods    []string `yaml:"methods"`
}

// LoadCatalogExtension 读取目录扩展文件
func LoadCatalogExtension(path string) (*CatalogExtension, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var ext CatalogExtension
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return &ext, nil
}

// Apply 把扩展名称注册到目录
func (e *CatalogExtension) Apply(cat *record.Catalog) error {
	if err := cat.AddProperty(e.Properties...); err != nil {
		return err
	}
	return cat.AddMethod(e.Methods...)
}
