package k8s

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundle = `---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: uptime-kuma
  labels:
    app.kubernetes.io/name: uptime-kuma
spec:
  replicas: 1
---
# comment-only document
---
apiVersion: v1
kind: Service
metadata:
  name: uptime-kuma
---
apiVersion: v1
kind: PersistentVolumeClaim
metadata:
  name: uptime-kuma-data
`

func TestReadK8sObjectsMultiDocument(t *testing.T) {
	objs, err := ReadK8sObjects([]byte(bundle))
	require.NoError(t, err)
	require.Len(t, objs, 3)

	assert.Equal(t, "Deployment", objs[0].GetKind())
	assert.Equal(t, "Service", objs[1].GetKind())
	assert.Equal(t, "PersistentVolumeClaim", objs[2].GetKind())
	for i, o := range objs {
		assert.Equal(t, i, o.Index)
	}
	assert.Equal(t, "Deployment/uptime-kuma", objs[0].Ref())
	assert.True(t, objs[0].IsDeployment())
	assert.Equal(t, "uptime-kuma", objs[0].GetLabels()["app.kubernetes.io/name"])
}

func TestReadK8sObjectsInvalidYAML(t *testing.T) {
	_, err := ReadK8sObjects([]byte("kind: Service\n  name: [broken\n"))
	assert.Error(t, err)
}

func TestReadK8sObjectsEmpty(t *testing.T) {
	objs, err := ReadK8sObjects([]byte("---\n---\n"))
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestLoadK8sObjectsErrors(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := LoadK8sObjects(filepath.Join(tmpDir, "missing.yaml"))
	var readErr *ReadError
	assert.ErrorAs(t, err, &readErr)
	assert.False(t, IsParseError(err))

	bad := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("a: b: c\n"), 0644))
	_, err = LoadK8sObjects(bad)
	assert.True(t, IsParseError(err))
}

func TestLoadK8sObjectsSetsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bundle), 0644))

	objs, err := LoadK8sObjects(path)
	require.NoError(t, err)
	for _, o := range objs {
		assert.Equal(t, path, o.ManifestPath)
	}
}

func TestFindByKindLastWins(t *testing.T) {
	objs, err := ReadK8sObjects([]byte("kind: Service\nmetadata:\n  name: a\n---\nkind: Service\nmetadata:\n  name: b\n"))
	require.NoError(t, err)

	svc := FindByKind(objs, "Service")
	require.NotNil(t, svc)
	assert.Equal(t, "b", svc.GetName())
	assert.Nil(t, FindByKind(objs, "Ingress"))
}

func TestFindManifestFilesNonRecursive(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yaml", "notes.md", "c.yml"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("kind: x\n"), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "nested", "d.yaml"), []byte("kind: x\n"), 0644))

	files, err := FindManifestFiles(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tmpDir, "a.yaml"), filepath.Join(tmpDir, "b.yaml")}, files)

	_, err = FindManifestFiles(filepath.Join(tmpDir, "absent"))
	assert.Error(t, err)
}
