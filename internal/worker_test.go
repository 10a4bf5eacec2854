package internal_test

import (
	"testing"
	"time"

	"github.com/franela/goblin"
	. "github.com/onsi/gomega"

	"github.com/spacelift-io/gpuautoscalr/internal"
)

func TestWorkerRecord(t *testing.T) {
	g := goblin.Goblin(t)
	RegisterFailHandler(func(m string, _ ...int) { g.Fail(m) })

	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	g.Describe("WorkerRecord", func() {
		var sut *internal.WorkerRecord

		g.BeforeEach(func() { sut = &internal.WorkerRecord{ID: "w1", CreatedAt: createdAt} })

		g.Describe("before the pod is provisioned", func() {
			g.It("should not be provisioned", func() {
				Expect(sut.Provisioned()).To(BeFalse())
			})

			g.It("should have unknown capacity", func() {
				worker := sut.Engine()

				Expect(worker.GPUCount).To(BeNil())
				Expect(worker.Capacity()).To(Equal(0))
				Expect(worker.LastSeen()).To(Equal(createdAt))
			})
		})

		g.Describe("after the pod is provisioned", func() {
			g.BeforeEach(func() {
				sut.PodID = "pod-1"
				sut.GPUCount = nullable(4)
				sut.LastPing = nullable(createdAt.Add(time.Minute))
			})

			g.It("should be provisioned", func() {
				Expect(sut.Provisioned()).To(BeTrue())
			})

			g.It("should carry the capacity and last ping", func() {
				worker := sut.Engine()

				Expect(worker.ID).To(Equal("w1"))
				Expect(worker.Capacity()).To(Equal(4))
				Expect(worker.LastSeen()).To(Equal(createdAt.Add(time.Minute)))
			})
		})
	})

	g.Describe("PodName", func() {
		const workerID = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

		g.It("should round-trip the worker ID", func() {
			got, ok := internal.WorkerIDFromPodName("fleet", internal.PodName("fleet", workerID))

			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(workerID))
		})

		g.It("should reject pods from other fleets", func() {
			_, ok := internal.WorkerIDFromPodName("fleet", "fleetwood-"+workerID)
			Expect(ok).To(BeFalse())
		})

		g.It("should reject pods of a fleet with a longer prefix", func() {
			_, ok := internal.WorkerIDFromPodName("gpufleet", "gpufleet-eu-"+workerID)
			Expect(ok).To(BeFalse())
		})

		g.It("should reject IDs which are not canonical UUIDs", func() {
			for _, name := range []string{
				"fleet-",
				"fleet-w1",
				"fleet-{" + workerID + "}",
				"fleet-urn:uuid:" + workerID,
				"fleet-1B4E28BA-2FA1-11D2-883F-0016D3CCA427",
			} {
				_, ok := internal.WorkerIDFromPodName("fleet", name)
				Expect(ok).To(BeFalse(), name)
			}
		})
	})
}

func nullable[T any](t T) *T {
	return &t
}
