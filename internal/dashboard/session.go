package dashboard

import (
	"context"
	"fmt"
	"io"
	"sync"

	"ev-dashboard/internal/model"
	"ev-dashboard/internal/pipeline"
)

// Session is one client's view of the dashboard. Every mutation rebuilds the
// view and publishes it to the session's subscribers.
type Session struct {
	ID string
	d  *Dashboard

	mu      sync.Mutex
	state   model.SessionState
	subs    map[int]chan model.View
	nextSub int
}

// State returns a copy of the session state.
func (s *Session) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View builds the current view without changing anything.
func (s *Session) View() model.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.ViewFor(s.state)
}

// apply moves the session to next, stores the clamped state and publishes.
func (s *Session) apply(next func(model.SessionState) model.SessionState) model.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.d.ViewFor(next(s.state))
	s.state = v.State
	s.publish(v)
	return v
}

// SetFilter changes one filter and returns to page 1. Selecting a company
// clears the model.
func (s *Session) SetFilter(key model.FilterKey, value string) (model.View, error) {
	k, err := model.ParseFilterKey(string(key))
	if err != nil {
		return model.View{}, err
	}
	return s.apply(func(st model.SessionState) model.SessionState {
		return model.SessionState{Filters: st.Filters.With(k, value), Page: 1}
	}), nil
}

// SetFilters replaces every filter at once and returns to page 1.
func (s *Session) SetFilters(f model.FilterState) model.View {
	return s.apply(func(model.SessionState) model.SessionState {
		return model.SessionState{Filters: f, Page: 1}
	})
}

// Reset clears all filters.
func (s *Session) Reset() model.View {
	return s.SetFilters(model.FilterState{})
}

// NextPage is a no-op on the last page.
func (s *Session) NextPage() model.View {
	return s.apply(func(st model.SessionState) model.SessionState {
		st.Page++
		return st
	})
}

// PrevPage is a no-op on page 1.
func (s *Session) PrevPage() model.View {
	return s.apply(func(st model.SessionState) model.SessionState {
		st.Page--
		return st
	})
}

// GotoPage jumps to page n, clamped to the available pages.
func (s *Session) GotoPage(n int) model.View {
	return s.apply(func(st model.SessionState) model.SessionState {
		st.Page = n
		return st
	})
}

// Detail returns the record shown as row sl (1-based) of the filtered table.
func (s *Session) Detail(sl int) (model.RecordDetail, error) {
	records, err := s.d.Filtered(s.State().Filters)
	if err != nil {
		return model.RecordDetail{}, err
	}
	if sl < 1 || sl > len(records) {
		return model.RecordDetail{}, fmt.Errorf("%w: SL %d of %d", ErrRecordNotFound, sl, len(records))
	}
	return pipeline.Detail(records[sl-1], sl), nil
}

// Export writes the session's filtered records as csv or json.
func (s *Session) Export(w io.Writer, format string) (model.ExportResult, error) {
	filters := s.State().Filters
	records, err := s.d.Filtered(filters)
	if err != nil {
		return model.ExportResult{}, err
	}
	return pipeline.Export(w, format, records, pipeline.ExportMeta{
		LoadID:  s.d.LoadInfo().ID,
		Filters: filters,
	})
}

// Subscribe delivers the current view and then every new one until ctx is
// done. A slow reader only ever sees the latest view.
func (s *Session) Subscribe(ctx context.Context) <-chan model.View {
	ch := make(chan model.View, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.d.ViewFor(s.state)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}()
	return ch
}

// refresh republishes after the dataset changed underneath the session.
func (s *Session) refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.d.ViewFor(s.state)
	s.state = v.State
	s.publish(v)
}

// publish must be called with s.mu held.
func (s *Session) publish(v model.View) {
	for _, ch := range s.subs {
		select {
		case ch <- v:
			continue
		default:
		}
		// drop the stale view nobody read yet
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
