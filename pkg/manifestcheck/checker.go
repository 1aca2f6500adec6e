// Package manifestcheck validates the Kubernetes manifests of the monitoring
// stack against a fixed checklist.
package manifestcheck

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/homelab/stackcheck/pkg/config"
	"github.com/homelab/stackcheck/pkg/k8s"
	"github.com/homelab/stackcheck/pkg/logger"
	"github.com/homelab/stackcheck/pkg/result"
	"github.com/homelab/stackcheck/pkg/rules"
)

const Title = "MONITORING STACK KUBERNETES MANIFEST TESTS"

// Manifest file names inside the manifest directory.
const (
	NamespaceFile         = "namespace.yaml"
	KustomizationFile     = "kustomization.yaml"
	ServiceMonitorFile    = "traefik-servicemonitor.yaml"
	MetricsServiceFile    = "traefik-metrics-service.yaml"
	GrafanaIngressFile    = "grafana-ingress.yaml"
	UptimeKumaFile        = "uptime-kuma-deployment.yaml"
	UptimeKumaIngressFile = "uptime-kuma-ingress.yaml"
)

const appNameLabel = "app.kubernetes.io/name"

// Checker runs the manifest checks against one repository.
type Checker struct {
	cfg    *config.Config
	result *result.Collector
}

// New returns a checker reporting to out.
func New(cfg *config.Config, out io.Writer) *Checker {
	return &Checker{
		cfg:    cfg,
		result: result.NewCollector(out),
	}
}

// Result exposes the collector of the last run.
func (c *Checker) Result() *result.Collector {
	return c.result
}

// RunAll runs every check in order, prints the summary and returns the exit
// code. Findings from a previous run are discarded first.
func (c *Checker) RunAll() int {
	c.result.Reset()
	c.result.Banner(Title)
	fmt.Fprintln(c.result.Writer())

	files := c.manifestFiles()

	c.CheckYAMLSyntax(files)
	c.CheckNamespace()
	c.CheckKustomization()
	c.CheckServiceMonitor()
	c.CheckMetricsService()
	c.CheckGrafanaIngress()
	c.CheckUptimeKumaDeployment()
	c.CheckUptimeKumaIngress()
	c.CheckArgoCDApplication()
	c.CheckLabelConsistency(files)
	c.CheckSecurity(files)

	return c.result.Summarize()
}

// manifestFiles lists the manifests to scan. A missing directory yields no
// files; the per-file checks then report the absent manifests.
func (c *Checker) manifestFiles() []string {
	files, err := k8s.FindManifestFiles(c.cfg.ManifestPath())
	if err != nil {
		logger.Warnf("No manifests discovered: %v", err)
		return nil
	}
	return files
}

func (c *Checker) manifest(name string) string {
	return filepath.Join(c.cfg.ManifestPath(), name)
}

// load decodes every document of path. Read and parse failures are recorded
// against the file's base name and yield nil.
func (c *Checker) load(path string) []k8s.K8sObject {
	objs, err := k8s.LoadK8sObjects(path)
	if err == nil {
		return objs
	}

	name := filepath.Base(path)
	cause := errors.Unwrap(err)
	if k8s.IsParseError(err) {
		c.result.AddError(fmt.Sprintf("YAML parse error in %s: %v", name, cause))
	} else {
		c.result.AddError(fmt.Sprintf("Error reading %s: %v", name, cause))
	}
	logger.Debugf("Failed to load %s: %v", path, err)
	return nil
}

// first loads path and returns its first document, or nil when the file is
// unusable or empty.
func (c *Checker) first(path string) map[string]interface{} {
	objs := c.load(path)
	if len(objs) == 0 {
		return nil
	}
	return objs[0].Object
}

// CheckYAMLSyntax prints one line per manifest telling whether it decoded to
// at least one document.
func (c *Checker) CheckYAMLSyntax(files []string) {
	c.result.Section("Testing YAML syntax...")
	for _, path := range files {
		name := filepath.Base(path)
		if objs := c.load(path); len(objs) > 0 {
			c.result.Pass("%s: Valid YAML syntax", name)
		} else {
			c.result.Fail("%s: Invalid YAML syntax", name)
		}
	}
}

// CheckLabelConsistency groups every document by its app.kubernetes.io/name
// label and prints the group sizes. It never records findings of its own.
func (c *Checker) CheckLabelConsistency(files []string) {
	c.result.Section("Testing label consistency...")

	var order []string
	groups := map[string][]string{}
	for _, path := range files {
		for _, obj := range c.load(path) {
			app := rules.String(obj.Object, "metadata", "labels", appNameLabel)
			if app == "" {
				continue
			}
			if _, seen := groups[app]; !seen {
				order = append(order, app)
			}
			groups[app] = append(groups[app], obj.Ref())
		}
	}

	c.result.Info("Found %d distinct %s labels:", len(order), appNameLabel)
	for _, app := range order {
		c.result.Info("  %s: %d resource(s)", app, len(groups[app]))
	}
}

// CheckSecurity warns about privileged or explicitly root containers in
// every Deployment.
func (c *Checker) CheckSecurity(files []string) {
	c.result.Section("Testing security best practices...")
	for _, path := range files {
		table := containerSecurityRules(filepath.Base(path))
		for _, obj := range c.load(path) {
			if !obj.IsDeployment() {
				continue
			}
			for _, container := range rules.Slice(obj.Object, "spec", "template", "spec", "containers") {
				if m, ok := container.(map[string]interface{}); ok {
					rules.Evaluate(m, table, c.result)
				}
			}
		}
	}
	c.result.Pass("Security best practices check complete")
}
