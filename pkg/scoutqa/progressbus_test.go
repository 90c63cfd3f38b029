package scoutqa

import (
	"sync"
	"testing"

	"github.com/scoutqa/scoutqa/internal/model"
)

func TestProgressBus_PublishesInSubscriptionOrder(t *testing.T) {
	bus := newProgressBus()
	var order []int

	bus.subscribe(func(model.ProgressEvent) { order = append(order, 1) })
	bus.subscribe(func(model.ProgressEvent) { order = append(order, 2) })
	bus.subscribe(func(model.ProgressEvent) { order = append(order, 3) })

	bus.publish(model.ProgressEvent{Phase: model.PhaseCrawling})

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("got %v, want %v", order, want)
		}
	}
}

func TestProgressBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := newProgressBus()
	var count int
	unsubscribe := bus.subscribe(func(model.ProgressEvent) { count++ })

	bus.publish(model.ProgressEvent{})
	unsubscribe()
	bus.publish(model.ProgressEvent{})

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestProgressBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := newProgressBus()
	unsubscribe := bus.subscribe(func(model.ProgressEvent) {})
	unsubscribe()
	unsubscribe()
}

func TestProgressBus_LateSubscriberReceivesNothing(t *testing.T) {
	bus := newProgressBus()
	bus.publish(model.ProgressEvent{Progress: 100})

	var count int
	bus.subscribe(func(model.ProgressEvent) { count++ })
	if count != 0 {
		t.Errorf("late subscriber received %d events, want 0", count)
	}
}

func TestProgressBus_ConcurrentSubscribeUnsubscribe(t *testing.T) {
	bus := newProgressBus()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsubscribe := bus.subscribe(func(model.ProgressEvent) {})
			bus.publish(model.ProgressEvent{})
			unsubscribe()
		}()
	}
	wg.Wait()
}
