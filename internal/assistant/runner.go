package assistant

import (
	"context"
	"errors"
	"fmt"
	"sort"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

var ErrUnknownTool = errors.New("unknown tool")

// Runner invokes catalog tools by name on behalf of the kiosk assistant
// widget, reporting each call to the configured callback handlers.
type Runner struct {
	tools    map[string]tool.InvokableTool
	infos    []*schema.ToolInfo
	handlers []einocb.Handler
}

func NewRunner(ctx context.Context, tools []tool.BaseTool, handlers ...einocb.Handler) (*Runner, error) {
	r := &Runner{tools: make(map[string]tool.InvokableTool, len(tools)), handlers: handlers}
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		invokable, ok := t.(tool.InvokableTool)
		if !ok {
			return nil, fmt.Errorf("tool %s is not invokable", info.Name)
		}
		r.tools[info.Name] = invokable
		r.infos = append(r.infos, info)
	}
	sort.Slice(r.infos, func(i, j int) bool { return r.infos[i].Name < r.infos[j].Name })
	return r, nil
}

// Infos describes the available tools, sorted by name.
func (r *Runner) Infos() []*schema.ToolInfo {
	return r.infos
}

// Run invokes a tool with JSON arguments and returns its JSON response.
func (r *Runner) Run(ctx context.Context, name, arguments string) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	ctx = einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      name,
		Type:      "CatalogTool",
		Component: components.ComponentOfTool,
	}, r.handlers...)
	ctx = einocb.OnStart(ctx, &tool.CallbackInput{ArgumentsInJSON: arguments})

	out, err := t.InvokableRun(ctx, arguments)
	if err != nil {
		einocb.OnError(ctx, err)
		return "", err
	}
	einocb.OnEnd(ctx, &tool.CallbackOutput{Response: out})
	return out, nil
}
