package engine

import (
	"sync"

	"github.com/pthm-cable/pyroflow/systems"
)

// floorJob asks a worker to compute one floor of the next buffer.
type floorJob struct {
	floor int
}

// floorPool is a persistent set of goroutines that step floors concurrently.
// Workers only read e.curr and only write their own floor of e.next.
type floorPool struct {
	numWorkers int
	numFloors  int

	workChan chan floorJob  // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

func newFloorPool(numWorkers, numFloors int) *floorPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &floorPool{numWorkers: numWorkers, numFloors: numFloors}
}

// start launches the worker goroutines.
func (p *floorPool) start(e *Engine) {
	if p.running {
		return
	}

	// Buffered for a whole tick so dispatch never blocks on collection
	p.workChan = make(chan floorJob, p.numFloors)
	p.doneChan = make(chan struct{}, p.numFloors)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(e)
	}
}

// stop signals all workers to exit and waits for them.
func (p *floorPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *floorPool) worker(e *Engine) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case job, ok := <-p.workChan:
			if !ok {
				return
			}
			e.stepFloor(job.floor)
			p.doneChan <- struct{}{}
		}
	}
}

// run computes every floor and blocks until all are done.
func (p *floorPool) run(e *Engine) {
	if !p.running {
		p.start(e)
	}

	for f := 0; f < p.numFloors; f++ {
		p.workChan <- floorJob{floor: f}
	}
	for i := 0; i < p.numFloors; i++ {
		<-p.doneChan
	}
}

// stepFloor computes floor f of the next buffer with that floor's own stream.
func (e *Engine) stepFloor(f int) {
	systems.StepFloor(e.curr, e.next, f, e.floorRNG[f], e.cfg)
}
