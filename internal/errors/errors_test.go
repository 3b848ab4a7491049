package errors_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jianghu-rpg/jianghu-api/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "monster not found",
			expected: "NOT_FOUND: monster not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "invalid input",
			expected: "INVALID_ARGUMENT: invalid input",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.NotFound("character not found").
		WithMeta("character_id", "123").
		WithMeta("clan_id", "clan_1")

	s.Assert().Equal("123", err.Meta["character_id"])
	s.Assert().Equal("clan_1", err.Meta["clan_id"])
}

func (s *ErrorsTestSuite) TestWrap() {
	s.Run("keeps the code of a structured cause", func() {
		cause := errors.NotFound("no such clan")
		err := errors.Wrap(cause, "join failed")

		s.Assert().Equal(errors.CodeNotFound, err.Code)
		s.Assert().True(errors.Is(err, cause))
	})

	s.Run("plain causes become internal", func() {
		err := errors.Wrap(fmt.Errorf("dial tcp: refused"), "save failed")
		s.Assert().Equal(errors.CodeInternal, err.Code)
	})

	s.Run("nil stays nil", func() {
		s.Assert().Nil(errors.Wrap(nil, "nothing"))
	})
}

func (s *ErrorsTestSuite) TestCooldownActive() {
	err := errors.CooldownActive("还需等待", 90*time.Second)

	s.Assert().Equal(errors.CodeResourceExhausted, errors.GetCode(err))
	s.Assert().True(errors.IsCooldownActive(err))
	s.Assert().Equal(90*time.Second, errors.CooldownRemaining(err))
	s.Assert().Zero(errors.CooldownRemaining(errors.NotFound("nope")))
}

func (s *ErrorsTestSuite) TestIsUserFacing() {
	s.Assert().True(errors.IsUserFacing(errors.NotFound("x")))
	s.Assert().True(errors.IsUserFacing(errors.FailedPrecondition("x")))
	s.Assert().True(errors.IsUserFacing(errors.CooldownActive("x", time.Second)))
	s.Assert().False(errors.IsUserFacing(errors.Internal("x")))
	s.Assert().False(errors.IsUserFacing(fmt.Errorf("plain")))
}

func (s *ErrorsTestSuite) TestHTTPStatus() {
	s.Assert().Equal(http.StatusNotFound, errors.GetCode(errors.NotFound("x")).HTTPStatus())
	s.Assert().Equal(http.StatusConflict, errors.GetCode(errors.AlreadyExists("x")).HTTPStatus())
	s.Assert().Equal(http.StatusUnauthorized, errors.GetCode(errors.Unauthenticated("x")).HTTPStatus())
	s.Assert().Equal(http.StatusInternalServerError, errors.GetCode(fmt.Errorf("plain")).HTTPStatus())
}

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationError() {
	ve := errors.NewValidationError()
	ve.AddFieldError("name", "is required")
	ve.AddFieldError("storage", "is invalid")

	s.Assert().True(ve.HasErrors())
	s.Assert().Contains(ve.Error(), "name: is required")
	s.Assert().Contains(ve.Error(), "storage: is invalid")

	err := ve.ToError()
	s.Assert().Equal(errors.CodeInvalidArgument, err.Code)
	s.Assert().NotNil(err.Meta["validation_errors"])
}

func (s *ValidationTestSuite) TestValidationBuilder() {
	err := errors.NewValidationBuilder().
		RequiredField("World").
		Fieldf("storage", "must be %q or %q", "redis", "file").
		Build()

	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "World: is required")
	s.Assert().Contains(err.Error(), `storage: must be "redis" or "file"`)
}

func (s *ValidationTestSuite) TestValidationBuilderEmpty() {
	s.Assert().NoError(errors.NewValidationBuilder().Build())
}
