package manifestcheck

import (
	"github.com/homelab/stackcheck/pkg/result"
	"github.com/homelab/stackcheck/pkg/rules"
)

const (
	errSev  = result.SeverityError
	warnSev = result.SeverityWarning
	infoSev = result.SeverityInfo
)

func path(p ...string) []string { return p }

var namespaceRules = []rules.Rule{
	{Path: path("apiVersion"), Cond: rules.Equals("v1"), Severity: errSev,
		Message: "namespace.yaml: apiVersion should be 'v1'", Pass: "Correct apiVersion"},
	{Path: path("kind"), Cond: rules.Equals("Namespace"), Severity: errSev,
		Message: "namespace.yaml: kind should be 'Namespace'", Pass: "Correct kind"},
	{Path: path("metadata", "name"), Cond: rules.Equals("monitoring"), Severity: errSev,
		Message: "namespace.yaml: namespace name should be 'monitoring'", Pass: "Correct namespace name"},
}

// RecommendedNamespaceLabels must be set on the monitoring namespace.
var RecommendedNamespaceLabels = []string{"name", "app.kubernetes.io/name", "app.kubernetes.io/managed-by"}

func namespaceLabelRules() []rules.Rule {
	table := make([]rules.Rule, 0, len(RecommendedNamespaceLabels))
	for _, label := range RecommendedNamespaceLabels {
		table = append(table, rules.Rule{
			Path:     path("metadata", "labels", label),
			Cond:     rules.Present(),
			Severity: warnSev,
			Message:  "namespace.yaml: Missing recommended label '" + label + "'",
			Pass:     "Has label: " + label,
		})
	}
	return table
}

var kustomizationRules = []rules.Rule{
	{Path: path("apiVersion"), Cond: rules.HasPrefix("kustomize.config.k8s.io"), Severity: errSev,
		Message: "kustomization.yaml: apiVersion should be kustomize.config.k8s.io/*", Pass: "Correct apiVersion"},
	{Path: path("kind"), Cond: rules.Equals("Kustomization"), Severity: errSev,
		Message: "kustomization.yaml: kind should be 'Kustomization'", Pass: "Correct kind"},
	{Path: path("resources"), Cond: rules.NotEmpty(), Severity: errSev,
		Message: "kustomization.yaml: No resources defined"},
}

var kustomizationLabelRules = []rules.Rule{
	{Path: path("commonLabels"), Cond: rules.Present(), Severity: warnSev,
		Message: "kustomization.yaml: Consider adding commonLabels", Pass: "commonLabels defined"},
}

var serviceMonitorRules = []rules.Rule{
	{Path: path("apiVersion"), Cond: rules.Equals("monitoring.coreos.com/v1"), Severity: errSev,
		Message: "ServiceMonitor: apiVersion should be 'monitoring.coreos.com/v1'", Pass: "Correct apiVersion"},
	{Path: path("kind"), Cond: rules.Equals("ServiceMonitor"), Severity: errSev,
		Message: "ServiceMonitor: kind should be 'ServiceMonitor'", Pass: "Correct kind"},
	{Path: path("metadata", "namespace"), Cond: rules.Equals("kube-system"), Severity: warnSev,
		Message: "ServiceMonitor: namespace is '{value}', traefik is typically in 'kube-system'", Pass: "Correct namespace"},
	{Path: path("spec", "selector"), Cond: rules.Present(), Severity: errSev,
		Message: "ServiceMonitor: Missing selector in spec", Pass: "Selector defined"},
	{Path: path("spec", "endpoints"), Cond: rules.NotEmpty(), Severity: errSev,
		Message: "ServiceMonitor: No endpoints defined"},
}

var endpointInfoRules = []rules.Rule{
	{Path: path("interval"), Cond: rules.Present(), Severity: infoSev, Pass: "Scrape interval: {value}", Depth: 1},
	{Path: path("path"), Cond: rules.Present(), Severity: infoSev, Pass: "Metrics path: {value}", Depth: 1},
}

var metricsServiceRules = []rules.Rule{
	{Path: path("apiVersion"), Cond: rules.Equals("v1"), Severity: errSev,
		Message: "traefik-metrics-service: apiVersion should be 'v1'", Pass: "Correct apiVersion"},
	{Path: path("kind"), Cond: rules.Equals("Service"), Severity: errSev,
		Message: "traefik-metrics-service: kind should be 'Service'", Pass: "Correct kind"},
	{Path: path("spec", "type"), Cond: rules.Equals("ClusterIP"), Severity: warnSev,
		Message: "traefik-metrics-service: type is '{value}', ClusterIP is recommended for internal services",
		Pass:    "Service type: ClusterIP"},
	{Path: path("spec", "ports"), Cond: rules.NotEmpty(), Severity: errSev,
		Message: "traefik-metrics-service: No ports defined"},
}

var metricsServiceSelectorRules = []rules.Rule{
	{Path: path("spec", "selector"), Cond: rules.Present(), Severity: errSev,
		Message: "traefik-metrics-service: Missing selector", Pass: "Selector defined"},
}

var grafanaIngressRules = []rules.Rule{
	{Path: path("apiVersion"), Cond: rules.HasPrefix("networking.k8s.io"), Severity: errSev,
		Message: "grafana-ingress: apiVersion should be 'networking.k8s.io/v1'", Pass: "Correct apiVersion"},
	{Path: path("kind"), Cond: rules.Equals("Ingress"), Severity: errSev,
		Message: "grafana-ingress: kind should be 'Ingress'", Pass: "Correct kind"},
	{Path: path("metadata", "namespace"), Cond: rules.Equals("monitoring"), Severity: errSev,
		Message: "grafana-ingress: Should be in 'monitoring' namespace", Pass: "Correct namespace"},
	{Path: path("spec", "ingressClassName"), Cond: rules.Equals("tailscale"), Severity: warnSev,
		Message: "grafana-ingress: ingressClassName is '{value}'", Pass: "Using Tailscale ingress (private access)"},
	{Path: path("spec", "tls"), Cond: rules.Present(), Severity: warnSev,
		Message: "grafana-ingress: TLS not configured", Pass: "TLS configured"},
	{Path: path("spec", "defaultBackend", "service", "name"), Cond: rules.NotEmpty(), Severity: infoSev,
		Pass: "Backend service: {value}"},
}

var uptimeKumaDeploymentRules = []rules.Rule{
	{Path: path("spec", "replicas"), Cond: rules.Equals(1), Severity: warnSev,
		Message: "uptime-kuma: replicas is {value}, should be 1 for SQLite", Pass: "Replicas: 1 (correct for SQLite)", Depth: 1},
	{Path: path("spec", "strategy", "type"), Cond: rules.Equals("Recreate"), Severity: errSev,
		Message: "uptime-kuma: strategy should be 'Recreate' for PVC-backed app", Pass: "Strategy: Recreate (correct for PVC)", Depth: 1},
}

var uptimeKumaContainerRules = []rules.Rule{
	{Path: path("resources", "requests"), Cond: rules.Present(), Severity: errSev,
		Message: "uptime-kuma: Missing resource requests", Pass: "Resource requests: {value}", Depth: 1},
	{Path: path("resources", "limits"), Cond: rules.Present(), Severity: warnSev,
		Message: "uptime-kuma: Missing resource limits", Pass: "Resource limits: {value}", Depth: 1},
	{Path: path("livenessProbe"), Cond: rules.Present(), Severity: warnSev,
		Message: "uptime-kuma: Missing liveness probe", Pass: "Liveness probe configured", Depth: 1},
	{Path: path("readinessProbe"), Cond: rules.Present(), Severity: warnSev,
		Message: "uptime-kuma: Missing readiness probe", Pass: "Readiness probe configured", Depth: 1},
	{Path: path("volumeMounts"), Cond: rules.NotEmpty(), Severity: errSev,
		Message: "uptime-kuma: No volume mounts (data persistence required)"},
}

var uptimeKumaServiceRules = []rules.Rule{
	{Path: path("spec", "type"), Cond: rules.Equals("ClusterIP"), Severity: infoSev,
		Pass: "Service type: ClusterIP", Depth: 1},
}

var uptimeKumaPVCRules = []rules.Rule{
	{Path: path("spec", "resources", "requests", "storage"), Cond: rules.NotEmpty(), Severity: infoSev,
		Pass: "Storage request: {value}", Depth: 1},
}

const (
	tlsAnnotation          = "traefik.ingress.kubernetes.io/router.tls"
	certResolverAnnotation = "traefik.ingress.kubernetes.io/router.tls.certresolver"
	middlewaresAnnotation  = "traefik.ingress.kubernetes.io/router.middlewares"
)

var uptimeKumaIngressRules = []rules.Rule{
	{Path: path("spec", "ingressClassName"), Cond: rules.Equals("traefik"), Severity: warnSev,
		Message: "uptime-kuma ingress: ingressClassName is '{value}'", Pass: "Using Traefik ingress", Depth: 1},
	{Path: path("metadata", "annotations", tlsAnnotation), Cond: rules.Present(), Severity: infoSev,
		Pass: "TLS configured", Depth: 1},
	{Path: path("metadata", "annotations", certResolverAnnotation), Cond: rules.Present(), Severity: infoSev,
		Pass: "Cert resolver: {value}", Depth: 1},
	{Path: path("metadata", "annotations", middlewaresAnnotation), Cond: rules.Present(), Severity: warnSev,
		Message: "uptime-kuma ingress: Consider adding rate limiting", Pass: "Rate limiting middleware configured", Depth: 1},
	{Path: path("spec", "rules"), Cond: rules.NotEmpty(), Severity: errSev,
		Message: "uptime-kuma ingress: No rules defined"},
}

var middlewareRules = []rules.Rule{
	{Path: path("kind"), Cond: rules.Equals("Middleware"), Severity: infoSev, Pass: "Correct kind", Depth: 1},
	{Path: path("spec", "rateLimit"), Cond: rules.Present(), Severity: errSev,
		Message: "Middleware: Missing rateLimit configuration"},
}

var argoCDRules = []rules.Rule{
	{Path: path("apiVersion"), Cond: rules.Equals("argoproj.io/v1alpha1"), Severity: errSev,
		Message: "monitoring-app.yaml: apiVersion should be 'argoproj.io/v1alpha1'", Pass: "Correct apiVersion"},
	{Path: path("kind"), Cond: rules.Equals("Application"), Severity: errSev,
		Message: "monitoring-app.yaml: kind should be 'Application'", Pass: "Correct kind"},
	{Path: path("metadata", "namespace"), Cond: rules.Equals("argocd"), Severity: errSev,
		Message: "monitoring-app.yaml: Should be in 'argocd' namespace", Pass: "Correct namespace"},
	{Path: path("spec", "source"), Cond: rules.NotEmpty(), Severity: errSev,
		Message: "monitoring-app.yaml: Missing source configuration"},
	{Path: path("spec", "source", "repoURL"), Cond: rules.NotEmpty(), Severity: infoSev, Pass: "Repo: {value}"},
	{Path: path("spec", "source", "targetRevision"), Cond: rules.NotEmpty(), Severity: infoSev, Pass: "Target revision: {value}"},
	{Path: path("spec", "source", "path"), Cond: rules.NotEmpty(), Severity: infoSev, Pass: "Path: {value}"},
	{Path: path("spec", "destination"), Cond: rules.NotEmpty(), Severity: errSev,
		Message: "monitoring-app.yaml: Missing destination configuration"},
	{Path: path("spec", "destination", "server"), Cond: rules.NotEmpty(), Severity: infoSev, Pass: "Destination server: {value}"},
	{Path: path("spec", "destination", "namespace"), Cond: rules.Equals("monitoring"), Severity: infoSev,
		Pass: "Destination namespace: monitoring"},
	{Path: path("spec", "syncPolicy"), Cond: rules.NotEmpty(), Severity: warnSev,
		Message: "monitoring-app.yaml: No sync policy defined"},
	{Path: path("spec", "syncPolicy", "automated"), Cond: rules.Present(), Severity: infoSev, Pass: "Automated sync enabled"},
	{Path: path("spec", "syncPolicy", "automated", "prune"), Cond: rules.NotEmpty(), Severity: infoSev,
		Pass: "Prune enabled", Depth: 1},
	{Path: path("spec", "syncPolicy", "automated", "selfHeal"), Cond: rules.NotEmpty(), Severity: infoSev,
		Pass: "Self-heal enabled", Depth: 1},
}

func containerSecurityRules(file string) []rules.Rule {
	return []rules.Rule{
		{Path: path("securityContext", "privileged"), Cond: rules.NotTruthy(), Severity: warnSev,
			Message: file + ": Container running in privileged mode"},
		{Path: path("securityContext", "runAsNonRoot"), Cond: rules.NotEqual(false), Severity: warnSev,
			Message: file + ": Container running as root"},
	}
}
