package main

import (
	"fmt"

	distillhttp "github.com/fwojciec/distill/http"
)

// Run executes the serve command. It blocks until the context ends.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := distillhttp.NewServer()
	s.Addr = c.Addr
	s.AllowedOrigins = c.Origins
	s.ExtractionService = deps.Service
	s.DocumentExtractor = deps.Documents
	s.RecordService = deps.Records
	s.Logger = deps.Logger

	if err := s.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: listening on %s: %v\n", c.Addr, err)
		return err
	}
	deps.Logger.Info("serving", "url", s.URL())

	<-deps.Ctx.Done()
	deps.Logger.Info("shutting down")
	return s.Close()
}
