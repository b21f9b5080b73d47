package curvebuild_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCurvebuild(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "curvebuild suite")
}
