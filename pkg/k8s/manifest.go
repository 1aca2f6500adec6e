package k8s

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	yamlutil "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/yaml"

	"github.com/homelab/stackcheck/pkg/logger"
)

// K8sObject is one document of a manifest file.
type K8sObject struct {
	unstructured.Unstructured
	ManifestPath string
	// Index is the position of the object among the non-null documents of its file.
	Index int
}

// Ref identifies the object as kind/name.
func (o K8sObject) Ref() string {
	return fmt.Sprintf("%s/%s", o.GetKind(), o.GetName())
}

func (o K8sObject) IsDeployment() bool {
	return o.GetKind() == "Deployment"
}

// ReadError means the manifest file could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ParseError means the manifest file is not valid YAML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err came from YAML decoding.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// LoadK8sObjects reads path and decodes every non-null document in it.
// The returned error is a *ReadError or a *ParseError.
func LoadK8sObjects(path string) ([]K8sObject, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	objs, err := ReadK8sObjects(content)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	for i := range objs {
		objs[i].ManifestPath = path
	}
	logger.Debugf("Loaded %d object(s) from %s", len(objs), path)
	return objs, nil
}

// ReadK8sObjects decodes a multi-document YAML stream. Empty and null
// documents are dropped.
func ReadK8sObjects(content []byte) ([]K8sObject, error) {
	reader := yamlutil.NewYAMLReader(bufio.NewReader(bytes.NewReader(content)))

	var objs []K8sObject
	for doc := 0; ; doc++ {
		raw, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading document %d: %w", doc, err)
		}

		var obj map[string]interface{}
		if err := yaml.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("unmarshaling document %d: %w", doc, err)
		}
		if obj == nil {
			continue
		}
		objs = append(objs, K8sObject{
			Unstructured: unstructured.Unstructured{Object: obj},
			Index:        len(objs),
		})
	}
	return objs, nil
}

// FindByKind returns the last object of the given kind, or nil.
func FindByKind(objs []K8sObject, kind string) *K8sObject {
	var found *K8sObject
	for i := range objs {
		if objs[i].GetKind() == kind {
			found = &objs[i]
		}
	}
	return found
}

// FindManifestFiles lists the *.yaml files directly inside dir, sorted by name.
// Subdirectories are not searched.
func FindManifestFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	logger.Debugf("Found %d manifest file(s) in %s", len(files), dir)
	return files, nil
}
