package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/leapstack-labs/psyrepl/internal/scope"
)

// ErrNoResult is returned when PHP exits without reporting a result, for
// example because the code called exit().
var ErrNoResult = errors.New("php exited before returning a result")

// responseMarker separates the code's own output from the JSON response.
const responseMarker = "\x00PSYREPL\x00"

// runnerScript restores the variables, evaluates the code and reports the
// result as JSON after the marker. It runs at file scope so that eval sees
// and defines ordinary variables. All of its own state lives in the
// reserved $__psysh__ array, which cleaned code can never name.
const runnerScript = `
$__psysh__ = ['in' => json_decode(file_get_contents('php://stdin'), true), 'ret' => null, 'err' => null];
foreach ($__psysh__['in']['vars'] as $__psysh__['pair']) {
    ${$__psysh__['pair']['name']} = $__psysh__['pair']['value'];
}
unset($__psysh__['pair']);
set_error_handler(function ($severity, $message, $file, $line) {
    if (!(error_reporting() & $severity)) {
        return false;
    }
    throw new \ErrorException($message, 0, $severity, $file, $line);
});
ob_start();
try {
    $__psysh__['ret'] = eval($__psysh__['in']['code']);
} catch (\Throwable $__psysh__e) {
    $__psysh__['err'] = [
        'class' => get_class($__psysh__e),
        'message' => $__psysh__e->getMessage(),
        'line' => $__psysh__e->getLine(),
        'warning' => $__psysh__e instanceof \ErrorException
            && ($__psysh__e->getSeverity() & (E_WARNING | E_NOTICE | E_DEPRECATED | E_USER_WARNING | E_USER_NOTICE | E_USER_DEPRECATED)) !== 0,
    ];
    unset($__psysh__e);
}
$__psysh__['out'] = ob_get_clean();
restore_error_handler();
$__psysh__['vars'] = [];
foreach (get_defined_vars() as $__psysh__['k'] => $__psysh__['v']) {
    if ($__psysh__['k'] === '__psysh__' || in_array($__psysh__['k'], ['GLOBALS', '_GET', '_POST', '_COOKIE', '_FILES', '_SERVER', '_ENV', '_REQUEST', 'argv', 'argc'], true)) {
        continue;
    }
    $__psysh__['vars'][] = ['name' => $__psysh__['k'], 'value' => $__psysh__['v']];
}
echo "\0PSYREPL\0", json_encode([
    'value' => $__psysh__['ret'],
    'output' => $__psysh__['out'],
    'vars' => $__psysh__['vars'],
    'error' => $__psysh__['err'],
], JSON_PARTIAL_OUTPUT_ON_ERROR | JSON_PRESERVE_ZERO_FRACTION);
`

type request struct {
	Code string           `json:"code"`
	Vars []scope.Variable `json:"vars"`
}

type response struct {
	Value  any              `json:"value"`
	Output string           `json:"output"`
	Vars   []scope.Variable `json:"vars"`
	Error  *struct {
		Class   string `json:"class"`
		Message string `json:"message"`
		Line    int    `json:"line"`
		Warning bool   `json:"warning"`
	} `json:"error"`
}

// PHP evaluates code in a fresh PHP CLI process per execution. Variables
// travel as JSON, so objects come back as plain maps.
type PHP struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewPHP creates a PHP evaluator.
func NewPHP(binary string, timeout time.Duration, logger *slog.Logger) *PHP {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PHP{binary: binary, timeout: timeout, logger: logger}
}

// Evaluate implements Evaluator. When PHP exits without a response the
// returned Result still carries whatever was printed.
func (p *PHP) Evaluate(ctx context.Context, code string, vars []scope.Variable) (*Result, error) {
	if vars == nil {
		vars = []scope.Variable{}
	}
	payload, err := json.Marshal(request{Code: code, Vars: vars})
	if err != nil {
		return nil, fmt.Errorf("failed to encode variables: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.binary, "-d", "display_errors=stderr", "-r", runnerScript)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	p.logger.Debug("php executed", "duration", time.Since(start), "bytes", stdout.Len())

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("execution timed out after %s: %w", p.timeout, ctx.Err())
	}

	prefix, resp, found, err := splitResponse(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	if !found {
		result := &Result{Output: prefix}
		if runErr != nil {
			return result, fmt.Errorf("php failed: %s: %w", strings.TrimSpace(stderr.String()), runErr)
		}
		return result, ErrNoResult
	}

	result := &Result{
		Value:  resp.Value,
		Output: prefix + resp.Output,
		Vars:   resp.Vars,
	}
	if resp.Error == nil {
		return result, nil
	}
	if resp.Error.Warning {
		return result, &Warning{Message: resp.Error.Message, Line: resp.Error.Line}
	}
	return result, &ExecError{Class: resp.Error.Class, Message: resp.Error.Message, Line: resp.Error.Line}
}

// splitResponse separates printed output from the trailing JSON response.
// Numbers are kept as json.Number so integers survive the round trip.
func splitResponse(out []byte) (string, *response, bool, error) {
	idx := bytes.LastIndex(out, []byte(responseMarker))
	if idx < 0 {
		return string(out), nil, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(out[idx+len(responseMarker):]))
	dec.UseNumber()
	var resp response
	if err := dec.Decode(&resp); err != nil {
		return "", nil, false, fmt.Errorf("failed to decode php response: %w", err)
	}
	return string(out[:idx]), &resp, true, nil
}
