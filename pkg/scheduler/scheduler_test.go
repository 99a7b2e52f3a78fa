package scheduler_test

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/threagile/editor-e2e/pkg/scheduler"
)

var _ = Describe("Scheduler", func() {
	var s *scheduler.Scheduler[string]

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
	})

	Describe("Submit", func() {
		It("should run work and deliver a named result", func() {
			s = scheduler.New[string](1)

			future := s.Submit("technical-asset", func(ctx context.Context) (string, error) {
				return "done", nil
			})
			Expect(future.Name()).To(Equal("technical-asset"))

			var result scheduler.Result[string]
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Name).To(Equal("technical-asset"))
			Expect(result.Data).To(Equal("done"))
			Expect(result.Err).NotTo(HaveOccurred())
		})

		It("should never run more work than there are workers", func() {
			// Given two workers and five slow units
			s = scheduler.New[string](2)
			var running, peak atomic.Int32
			work := func(ctx context.Context) (string, error) {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(50 * time.Millisecond)
				running.Add(-1)
				return "", nil
			}

			// When
			var futures []*scheduler.Future[string]
			for range 5 {
				futures = append(futures, s.Submit("group", work))
			}
			results, err := scheduler.Collect(context.Background(), futures...)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(5))
			Expect(peak.Load()).To(BeNumerically("<=", 2))
		})

		It("should report panics as errors and keep the worker", func() {
			s = scheduler.New[string](1)

			panicking := s.Submit("broken", func(ctx context.Context) (string, error) {
				panic("boom")
			})
			var result scheduler.Result[string]
			Eventually(panicking.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(ContainSubstring("work broken panicked: boom")))

			next := s.Submit("fine", func(ctx context.Context) (string, error) { return "ok", nil })
			Eventually(next.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Data).To(Equal("ok"))
		})
	})

	Describe("Collect", func() {
		It("should keep the order of the futures", func() {
			s = scheduler.New[string](3)
			slow := s.Submit("slow", func(ctx context.Context) (string, error) {
				time.Sleep(100 * time.Millisecond)
				return "slow", nil
			})
			fast := s.Submit("fast", func(ctx context.Context) (string, error) { return "fast", nil })

			results, err := scheduler.Collect(context.Background(), slow, fast)

			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Data).To(Equal("slow"))
			Expect(results[1].Data).To(Equal("fast"))
		})

		It("should stop the remaining work when the context ends", func() {
			s = scheduler.New[string](1)
			cancelled := make(chan bool, 1)
			blocked := s.Submit("blocked", func(ctx context.Context) (string, error) {
				<-ctx.Done()
				cancelled <- true
				return "", ctx.Err()
			})
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			results, err := scheduler.Collect(ctx, blocked)

			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(results).To(BeEmpty())
			Eventually(cancelled, 2*time.Second).Should(Receive(BeTrue()))
		})
	})

	Describe("Cancel work", func() {
		It("should cancel work via future.Stop()", func() {
			s = scheduler.New[string](1)

			cancelled := make(chan bool, 1)
			work := func(ctx context.Context) (string, error) {
				select {
				case <-ctx.Done():
					cancelled <- true
					return "", ctx.Err()
				case <-time.After(5 * time.Second):
					return "completed", nil
				}
			}

			future := s.Submit("group", work)
			time.Sleep(100 * time.Millisecond)
			future.Stop()

			Eventually(cancelled, 2*time.Second).Should(Receive(BeTrue()))
		})

		It("should cancel running work and fail queued work on Close", func() {
			s = scheduler.New[string](1)

			cancelled := make(chan bool, 1)
			running := s.Submit("running", func(ctx context.Context) (string, error) {
				<-ctx.Done()
				cancelled <- true
				return "", ctx.Err()
			})
			queued := s.Submit("queued", func(ctx context.Context) (string, error) { return "never", nil })
			time.Sleep(100 * time.Millisecond)

			s.Close()
			s = nil // prevent AfterEach from closing again

			Eventually(cancelled, 2*time.Second).Should(Receive(BeTrue()))
			var result scheduler.Result[string]
			Eventually(running.C(), time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(context.Canceled))
			Eventually(queued.C(), time.Second).Should(Receive(&result))
			Expect(result.Name).To(Equal("queued"))
			Expect(result.Err).To(MatchError(context.Canceled))
		})
	})

	Describe("Goroutine cleanup", func() {
		It("should not leak goroutines after Close under load", func() {
			base := runtime.NumGoroutine()
			s = scheduler.New[string](4)

			work := func(ctx context.Context) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			}

			for i := 0; i < 200; i++ {
				s.Submit("group", work)
			}

			time.Sleep(100 * time.Millisecond)
			s.Close()
			s = nil // prevent AfterEach from closing again

			Eventually(func() int {
				return runtime.NumGoroutine()
			}, 5*time.Second, 100*time.Millisecond).Should(BeNumerically("<=", base+10))
		})
	})

	Describe("Close behavior", func() {
		It("should return canceled when Submit is called after Close", func() {
			s = scheduler.New[string](1)
			s.Close()

			future := s.Submit("late", func(ctx context.Context) (string, error) {
				return "done", nil
			})

			var result scheduler.Result[string]
			Eventually(future.C(), 1*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(context.Canceled))
		})

		It("should wait for in-flight work to finish on Close", func() {
			s = scheduler.New[string](1)

			started := make(chan struct{})
			unblock := make(chan struct{})
			work := func(ctx context.Context) (string, error) {
				close(started)
				<-unblock
				return "done", nil
			}

			s.Submit("group", work)
			Eventually(started, 1*time.Second).Should(BeClosed())

			closeDone := make(chan struct{})
			go func() {
				s.Close()
				close(closeDone)
			}()

			Consistently(closeDone, 200*time.Millisecond).ShouldNot(BeClosed())
			close(unblock)
			Eventually(closeDone, 1*time.Second).Should(BeClosed())
			s = nil // prevent AfterEach from closing again
		})
	})
})
