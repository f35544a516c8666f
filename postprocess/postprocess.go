// Package postprocess runs generated listfiles sources through an ordered
// series of transformations before they are written.
//
//	chain := postprocess.NewChain()
//	chain.Add("goimports", processors.NewGoImports())
//	out, err := chain.Process("gen_listfiles.go", src)
package postprocess

import "fmt"

// Processor transforms the content of one generated file. It must return the
// content unchanged when it does not apply to the file.
type Processor interface {
	ProcessContent(filePath string, content []byte) ([]byte, error)
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc func(filePath string, content []byte) ([]byte, error)

func (f ProcessorFunc) ProcessContent(filePath string, content []byte) ([]byte, error) {
	return f(filePath, content)
}

type stage struct {
	name      string
	processor Processor
}

// Chain applies its processors in the order they were added. It is not safe
// to Add while another goroutine calls Process.
type Chain struct {
	stages []stage
}

func NewChain() *Chain {
	return &Chain{}
}

func (c *Chain) Add(name string, processor Processor) {
	c.stages = append(c.stages, stage{name: name, processor: processor})
}

func (c *Chain) AddFunc(name string, fn func(filePath string, content []byte) ([]byte, error)) {
	c.Add(name, ProcessorFunc(fn))
}

// Process stops at the first failing stage; the input is never modified.
func (c *Chain) Process(filePath string, content []byte) ([]byte, error) {
	result := content
	for _, s := range c.stages {
		processed, err := s.processor.ProcessContent(filePath, result)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", s.name, filePath, err)
		}
		result = processed
	}
	return result, nil
}

// Names lists the stages in execution order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.name
	}
	return names
}

func (c *Chain) Len() int {
	return len(c.stages)
}
