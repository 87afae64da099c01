package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/remotecommand"

	"github.com/silexa/boardcore/internal/errs"
)

// RemoteExecutor runs a node by exec'ing into a pod selected by
// label, mirroring the teacher's kubeClient in
// agents/manager/internal/beam/kube.go but selecting pods by the
// configured label selector instead of a dyad name.
type RemoteExecutor struct {
	client    *kubernetes.Clientset
	config    *rest.Config
	namespace string
	labelSel  string
	container string
}

// NewRemoteExecutor builds a client the same way the teacher does: an
// in-cluster config first, falling back to KUBECONFIG / ~/.kube/config
// for local development against a remote cluster.
func NewRemoteExecutor(namespace, labelSelector, containerName string) (*RemoteExecutor, error) {
	cfg, err := rest.InClusterConfig()
	if err != nil {
		kubeconfig := strings.TrimSpace(os.Getenv("KUBECONFIG"))
		if kubeconfig == "" {
			if home, herr := os.UserHomeDir(); herr == nil && home != "" {
				kubeconfig = filepath.Join(home, ".kube", "config")
			}
		}
		cfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, err
		}
	}
	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = "boardcore"
	}
	return &RemoteExecutor{client: clientset, config: cfg, namespace: namespace, labelSel: labelSelector, container: containerName}, nil
}

func (e *RemoteExecutor) Name() string { return "remote" }

func (e *RemoteExecutor) resolvePod(ctx context.Context) (string, error) {
	list, err := e.client.CoreV1().Pods(e.namespace).List(ctx, metav1.ListOptions{LabelSelector: e.labelSel})
	if err != nil {
		return "", err
	}
	for _, pod := range list.Items {
		if pod.Status.Phase == corev1.PodRunning {
			return pod.Name, nil
		}
	}
	if len(list.Items) > 0 {
		return list.Items[0].Name, nil
	}
	return "", fmt.Errorf("no pod found matching %q in namespace %s", e.labelSel, e.namespace)
}

func (e *RemoteExecutor) ExecuteNode(ctx context.Context, inv NodeInvocation) (NodeOutcome, error) {
	if e == nil || e.client == nil {
		return NodeOutcome{}, errs.New(errs.KindRemoteOnly, "remote executor is not initialized")
	}
	podName, err := e.resolvePod(ctx)
	if err != nil {
		return NodeOutcome{}, errs.Wrap(errs.KindRemoteOnly, err, "resolve pod for node %s", inv.Node.Name)
	}
	payload, err := json.Marshal(inv.Inputs)
	if err != nil {
		return NodeOutcome{}, errs.Wrap(errs.KindInternal, err, "encode node inputs")
	}
	cmd := []string{"board-node-run", "--node", inv.Node.Name, "--payload", string(payload)}

	req := e.client.CoreV1().RESTClient().
		Post().
		Resource("pods").
		Name(podName).
		Namespace(e.namespace).
		SubResource("exec")
	req.VersionedParams(&corev1.PodExecOptions{
		Container: e.container,
		Command:   cmd,
		Stdout:    true,
		Stderr:    true,
	}, scheme.ParameterCodec)

	exec, err := remotecommand.NewSPDYExecutor(e.config, "POST", req.URL())
	if err != nil {
		return NodeOutcome{}, errs.Wrap(errs.KindRemoteOnly, err, "build exec for node %s", inv.Node.Name)
	}
	var out, errOut bytes.Buffer
	if err := exec.StreamWithContext(ctx, remotecommand.StreamOptions{Stdout: &out, Stderr: &errOut}); err != nil {
		return NodeOutcome{Error: errOut.String()}, errs.Wrap(errs.KindNodeError, err, "exec node %s on pod %s", inv.Node.Name, podName)
	}
	return outcomeFromBuffer(&out), nil
}
