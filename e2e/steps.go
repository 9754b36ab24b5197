package e2e

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterSteps binds every step used by the feature files.
func RegisterSteps(sc *godog.ScenarioContext, tc *TestContext) {
	sc.Step(`^a producer with aadhar "([^"]*)" claiming business name "([^"]*)" and annual income (\d+)$`, tc.aProducerClaiming)
	sc.Step(`^the certificate reads:$`, tc.theCertificateReads)
	sc.Step(`^I submit the verification$`, tc.iSubmitTheVerification)
	sc.Step(`^I request producer "([^"]*)"$`, tc.iRequestProducer)
	sc.Step(`^I list producers$`, tc.iListProducers)
	sc.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	sc.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, tc.theResponseFieldShouldEqual)
	sc.Step(`^the response field "([^"]*)" should be (true|false)$`, tc.theResponseFieldShouldBeBool)
	sc.Step(`^the response field "([^"]*)" should be null$`, tc.theResponseFieldShouldBeNull)
	sc.Step(`^the response should include a (\d+) digit pin$`, tc.theResponseShouldIncludeAPin)
	sc.Step(`^the response should not include a pin$`, tc.theResponseShouldNotIncludeAPin)
}

func (tc *TestContext) aProducerClaiming(aadhar, name string, income int) error {
	tc.Aadhar = aadhar
	tc.Name = name
	tc.AnnualIncome = float64(income)
	return nil
}

func (tc *TestContext) theCertificateReads(doc *godog.DocString) error {
	tc.Certificate = doc.Content
	return nil
}

func (tc *TestContext) iSubmitTheVerification() error {
	return tc.POST("/verify", tc.VerifyBody())
}

func (tc *TestContext) iRequestProducer(aadhar string) error {
	return tc.GET("/producers/" + aadhar)
}

func (tc *TestContext) iListProducers() error {
	return tc.GET("/producers")
}

func (tc *TestContext) theResponseStatusShouldBe(status int) error {
	if tc.LastResponse == nil {
		return fmt.Errorf("no request has been made")
	}
	if tc.LastResponse.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d", status, tc.LastResponse.StatusCode)
	}
	return nil
}

func (tc *TestContext) theResponseFieldShouldEqual(field, want string) error {
	value, err := tc.GetResponseField(field)
	if err != nil {
		return err
	}
	var got string
	switch v := value.(type) {
	case string:
		got = v
	case float64:
		got = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		got = fmt.Sprint(v)
	}
	if got != want {
		return fmt.Errorf("expected %s to equal %q, got %q", field, want, got)
	}
	return nil
}

func (tc *TestContext) theResponseFieldShouldBeBool(field, want string) error {
	value, err := tc.GetResponseField(field)
	if err != nil {
		return err
	}
	b, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected %s to be a boolean, got %T", field, value)
	}
	if strconv.FormatBool(b) != want {
		return fmt.Errorf("expected %s to be %s, got %t", field, want, b)
	}
	return nil
}

func (tc *TestContext) theResponseFieldShouldBeNull(field string) error {
	value, err := tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if value != nil {
		return fmt.Errorf("expected %s to be null, got %v", field, value)
	}
	return nil
}

func (tc *TestContext) theResponseShouldIncludeAPin(digits int) error {
	value, err := tc.GetResponseField("pin")
	if err != nil {
		return err
	}
	pin, ok := value.(string)
	if !ok || len(pin) != digits || strings.Trim(pin, "0123456789") != "" {
		return fmt.Errorf("expected a %d digit pin, got %v", digits, value)
	}
	tc.LastPIN = pin
	return nil
}

func (tc *TestContext) theResponseShouldNotIncludeAPin() error {
	if _, err := tc.GetResponseField("pin"); err == nil {
		return fmt.Errorf("expected no pin in response")
	}
	return nil
}
