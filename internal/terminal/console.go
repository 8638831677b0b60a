package terminal

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"customer-insights/internal/common/logger"
	"customer-insights/internal/controller"
	"customer-insights/internal/view"
)

const helpText = `Commands:
  segment <customer id>      look up a customer's segment
  recommend <product name>   fetch product recommendations
  help                       show this help
  quit                       wait for running lookups and exit
`

// Console reads commands and turns them into clicks on the controller.
type Console struct {
	ctrl   *controller.Controller
	view   *View
	in     io.Reader
	logger logger.Logger

	wg sync.WaitGroup
}

func NewConsole(ctrl *controller.Controller, v *View, in io.Reader, log logger.Logger) *Console {
	return &Console{
		ctrl:   ctrl,
		view:   v,
		in:     in,
		logger: log.With(map[string]interface{}{"component": "terminal"}),
	}
}

// Run processes commands until quit or end of input, then waits for every
// dispatched flow to finish rendering.
func (c *Console) Run(ctx context.Context) error {
	// running lookups are never cancelled
	flowCtx := context.WithoutCancel(ctx)

	defer c.wg.Wait()

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		command, arg := splitCommand(scanner.Text())

		switch command {
		case "":
		case "segment":
			c.click(view.ControlSegment, func() (<-chan struct{}, error) {
				return c.ctrl.OnSegmentClick(flowCtx, arg)
			})
		case "recommend":
			c.click(view.ControlRecommend, func() (<-chan struct{}, error) {
				return c.ctrl.OnRecommendClick(flowCtx, arg)
			})
		case "help":
			c.view.printf("%s", helpText)
		case "quit", "exit":
			return nil
		default:
			c.view.printf("unknown command %q, type help\n", command)
		}
	}
	return scanner.Err()
}

func (c *Console) click(control view.Control, dispatch func() (<-chan struct{}, error)) {
	done, err := dispatch()
	if errors.Is(err, controller.ErrControlBusy) {
		c.view.printf("%s is busy, please wait\n", control.Label())
		c.logger.Debug("click on busy control", map[string]interface{}{"control": string(control)})
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-done
	}()
}

func splitCommand(line string) (command, arg string) {
	line = strings.TrimSpace(line)
	command, arg, _ = strings.Cut(line, " ")
	return strings.ToLower(command), strings.TrimSpace(arg)
}
