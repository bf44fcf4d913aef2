package spider

import "sync"

// ReqHistoryRepository remembers which requests were already queued and
// which ones failed during a run. Nothing is persisted between runs.
type ReqHistoryRepository interface {
	AddVisited(reqs ...*Request)
	AddFailures(req *Request, err error) bool
	Failures() []Failure
	HasVisited(req *Request) bool
}

type Failure struct {
	Req *Request
	Err error
}

type reqHistory struct {
	Visited     map[string]bool
	VisitedLock sync.Mutex

	failures    map[string]int // 失败请求id -> index in failureList
	failureList []Failure
	failureLock sync.Mutex
}

func NewReqHistoryRepository() ReqHistoryRepository {
	r := &reqHistory{}
	r.Visited = make(map[string]bool, 100)
	r.failures = make(map[string]int, 100)
	return r
}

func (r *reqHistory) HasVisited(req *Request) bool {
	r.VisitedLock.Lock()
	defer r.VisitedLock.Unlock()

	unique := req.Unique()

	return r.Visited[unique]
}

func (r *reqHistory) AddVisited(reqs ...*Request) {
	r.VisitedLock.Lock()
	defer r.VisitedLock.Unlock()

	for _, req := range reqs {
		unique := req.Unique()
		r.Visited[unique] = true
	}
}

// AddFailures records a failed request and reports whether it is the first
// failure for it. Failed requests are never retried within a run.
func (r *reqHistory) AddFailures(req *Request, err error) bool {
	r.failureLock.Lock()
	defer r.failureLock.Unlock()

	if i, ok := r.failures[req.Unique()]; ok {
		r.failureList[i].Err = err
		return false
	}

	r.failures[req.Unique()] = len(r.failureList)
	r.failureList = append(r.failureList, Failure{Req: req, Err: err})

	return true
}

func (r *reqHistory) Failures() []Failure {
	r.failureLock.Lock()
	defer r.failureLock.Unlock()

	out := make([]Failure, len(r.failureList))
	copy(out, r.failureList)
	return out
}
