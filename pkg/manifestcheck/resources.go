package manifestcheck

import (
	"fmt"
	"os"
	"strings"

	"github.com/homelab/stackcheck/pkg/k8s"
	"github.com/homelab/stackcheck/pkg/rules"
)

// CheckNamespace validates the monitoring Namespace.
func (c *Checker) CheckNamespace() {
	c.result.Section("Testing namespace configuration...")
	ns := c.first(c.manifest(NamespaceFile))
	if ns == nil {
		return
	}
	rules.Evaluate(ns, namespaceRules, c.result)
	rules.Evaluate(ns, namespaceLabelRules(), c.result)
}

// CheckKustomization also verifies that every listed resource exists next to
// the kustomization file.
func (c *Checker) CheckKustomization() {
	c.result.Section("Testing kustomization configuration...")
	kust := c.first(c.manifest(KustomizationFile))
	if kust == nil {
		return
	}
	rules.Evaluate(kust, kustomizationRules, c.result)

	if resources := rules.Slice(kust, "resources"); len(resources) > 0 {
		c.result.Pass("%d resources defined", len(resources))
		for _, r := range resources {
			name := fmt.Sprint(r)
			if _, err := os.Stat(c.manifest(name)); err != nil {
				c.result.AddError(fmt.Sprintf("kustomization.yaml: Referenced file '%s' does not exist", name))
				continue
			}
			c.result.Info("  ✓ %s exists", name)
		}
	}

	rules.Evaluate(kust, kustomizationLabelRules, c.result)
}

// CheckServiceMonitor validates the Traefik ServiceMonitor and each of its
// scrape endpoints.
func (c *Checker) CheckServiceMonitor() {
	c.result.Section("Testing ServiceMonitor configuration...")
	sm := c.first(c.manifest(ServiceMonitorFile))
	if sm == nil {
		return
	}
	rules.Evaluate(sm, serviceMonitorRules, c.result)

	endpoints := rules.Slice(sm, "spec", "endpoints")
	if len(endpoints) == 0 {
		return
	}
	c.result.Pass("%d endpoint(s) defined", len(endpoints))
	for idx, e := range endpoints {
		endpoint, _ := e.(map[string]interface{})
		if _, ok := endpoint["port"]; !ok {
			c.result.AddError(fmt.Sprintf("ServiceMonitor: Endpoint %d missing 'port'", idx))
		}
		rules.Evaluate(endpoint, endpointInfoRules, c.result)
	}
}

// CheckMetricsService validates the Service exposing Traefik metrics.
func (c *Checker) CheckMetricsService() {
	c.result.Section("Testing Traefik metrics Service...")
	svc := c.first(c.manifest(MetricsServiceFile))
	if svc == nil {
		return
	}
	rules.Evaluate(svc, metricsServiceRules, c.result)

	if ports := rules.Slice(svc, "spec", "ports"); len(ports) > 0 {
		c.result.Pass("%d port(s) defined", len(ports))
		for _, p := range ports {
			port, _ := p.(map[string]interface{})
			if rules.String(port, "name") == "metrics" {
				v, found := rules.Lookup(port, "port")
				c.result.Info("  ✓ Metrics port: %s", rules.Display(v, found))
			}
		}
	}

	rules.Evaluate(svc, metricsServiceSelectorRules, c.result)
}

// CheckGrafanaIngress validates the Grafana Ingress.
func (c *Checker) CheckGrafanaIngress() {
	c.result.Section("Testing Grafana Ingress...")
	ing := c.first(c.manifest(GrafanaIngressFile))
	if ing == nil {
		return
	}
	rules.Evaluate(ing, grafanaIngressRules, c.result)
}

// CheckUptimeKumaDeployment validates the Uptime Kuma bundle. Documents are
// picked by kind; when a kind repeats the last document wins.
func (c *Checker) CheckUptimeKumaDeployment() {
	c.result.Section("Testing Uptime Kuma Deployment...")
	objs := c.load(c.manifest(UptimeKumaFile))
	if len(objs) == 0 {
		return
	}

	if deploy := k8s.FindByKind(objs, "Deployment"); deploy != nil {
		c.result.Info("Testing Deployment...")
		rules.Evaluate(deploy.Object, uptimeKumaDeploymentRules, c.result)

		containers := rules.Slice(deploy.Object, "spec", "template", "spec", "containers")
		if len(containers) > 0 {
			container, _ := containers[0].(map[string]interface{})
			c.checkUptimeKumaImage(rules.String(container, "image"))
			rules.Evaluate(container, uptimeKumaContainerRules, c.result)
			if mounts := rules.Slice(container, "volumeMounts"); len(mounts) > 0 {
				c.result.Info("  ✓ %d volume mount(s)", len(mounts))
			}
		}
	}

	if svc := k8s.FindByKind(objs, "Service"); svc != nil {
		c.result.Info("Testing Service...")
		rules.Evaluate(svc.Object, uptimeKumaServiceRules, c.result)
		if ports := rules.Slice(svc.Object, "spec", "ports"); len(ports) > 0 {
			c.result.Info("  ✓ %d port(s) exposed", len(ports))
		}
	}

	if pvc := k8s.FindByKind(objs, "PersistentVolumeClaim"); pvc != nil {
		c.result.Info("Testing PersistentVolumeClaim...")
		rules.Evaluate(pvc.Object, uptimeKumaPVCRules, c.result)
		for _, mode := range rules.Slice(pvc.Object, "spec", "accessModes") {
			if mode == "ReadWriteOnce" {
				c.result.Info("  ✓ Access mode: ReadWriteOnce")
				break
			}
		}
	}
}

// checkUptimeKumaImage warns when an uptime-kuma image is untagged or
// tracks :latest. Other images are not inspected.
func (c *Checker) checkUptimeKumaImage(image string) {
	if !strings.Contains(image, "uptime-kuma") {
		return
	}
	c.result.Info("  ✓ Image: %s", image)
	if strings.Contains(image, ":") && !strings.HasSuffix(image, ":latest") {
		c.result.Info("  ✓ Versioned image (not :latest)")
		return
	}
	c.result.AddWarning("uptime-kuma: Consider using a specific version tag")
}

// CheckUptimeKumaIngress validates the Ingress and rate limiting Middleware
// that expose Uptime Kuma.
func (c *Checker) CheckUptimeKumaIngress() {
	c.result.Section("Testing Uptime Kuma Ingress...")
	objs := c.load(c.manifest(UptimeKumaIngressFile))
	if len(objs) == 0 {
		return
	}

	if ing := k8s.FindByKind(objs, "Ingress"); ing != nil {
		c.result.Info("Testing Ingress...")
		rules.Evaluate(ing.Object, uptimeKumaIngressRules, c.result)

		for _, r := range rules.Slice(ing.Object, "spec", "rules") {
			rule, _ := r.(map[string]interface{})
			host := rules.String(rule, "host")
			if host == "" {
				continue
			}
			c.result.Info("  ✓ Host: %s", host)
			if !strings.Contains(host, ".") {
				c.result.AddWarning(fmt.Sprintf("uptime-kuma ingress: Host '%s' doesn't look like a valid domain", host))
			}
		}
	}

	if mw := k8s.FindByKind(objs, "Middleware"); mw != nil {
		c.result.Info("Testing Middleware...")
		if rules.Evaluate(mw.Object, middlewareRules, c.result) == 0 {
			avg, avgFound := rules.Lookup(mw.Object, "spec", "rateLimit", "average")
			burst, burstFound := rules.Lookup(mw.Object, "spec", "rateLimit", "burst")
			c.result.Info("  ✓ Rate limit: %s/min, burst: %s",
				rules.Display(avg, avgFound), rules.Display(burst, burstFound))
		}
	}
}

// CheckArgoCDApplication validates the ArgoCD Application that deploys the
// stack. It lives outside the manifest directory.
func (c *Checker) CheckArgoCDApplication() {
	c.result.Section("Testing ArgoCD Application...")
	app := c.first(c.cfg.ArgoCDAppPath())
	if app == nil {
		return
	}
	rules.Evaluate(app, argoCDRules, c.result)
}
