package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	imagesUploadedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "myblog_images_uploaded_total",
			Help: "Total number of images written to the object store",
		},
	)

	imagesDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "myblog_images_deleted_total",
			Help: "Total number of images removed from the object store",
		},
	)

	// reason: upload_failed, persist_failed, delete_failed
	imageOrphansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "myblog_image_orphans_total",
			Help: "Images left in the object store without an owning entity",
		},
		[]string{"reason"},
	)

	orphansSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "myblog_orphans_swept_total",
			Help: "Orphaned images deleted by the sweeper",
		},
	)
)
