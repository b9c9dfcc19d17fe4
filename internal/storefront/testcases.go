package storefront

// TestCase is one documented scenario on the test cases page
type TestCase struct {
	Title string
	Steps []string
}

// DefaultTestCases is the listing shown on /test_cases
var DefaultTestCases = []TestCase{
	{
		Title: "Test Case 1: Register User",
		Steps: []string{
			"1. Launch browser",
			"2. Navigate to url 'http://automationexercise.com'",
			"3. Verify that home page is visible successfully",
			"4. Click on 'Signup / Login' button",
			"5. Verify 'New User Signup!' is visible",
		},
	},
	{
		Title: "Test Case 2: Login User with correct email and password",
		Steps: []string{
			"1. Launch browser",
			"2. Navigate to url 'http://automationexercise.com'",
			"3. Verify that home page is visible successfully",
			"4. Click on 'Signup / Login' button",
			"5. Enter correct email address and password",
			"6. Click 'login' button",
			"7. Verify that 'Logged in as username' is visible",
		},
	},
	{
		Title: "Test Case 4: Logout User",
		Steps: []string{
			"1. Launch browser",
			"2. Navigate to url 'http://automationexercise.com'",
			"3. Click on 'Signup / Login' button",
			"4. Enter correct email address and password",
			"5. Click 'Logout' button",
			"6. Verify that user is navigated to login page",
		},
	},
	{
		Title: "Test Case 9: Search Product",
		Steps: []string{
			"1. Launch browser",
			"2. Click on 'Products' button",
			"3. Enter product name in search input and click search button",
			"4. Verify 'SEARCHED PRODUCTS' is visible",
			"5. Verify all the products related to search are visible",
		},
	},
	{
		Title: "Test Case 24: Download Invoice after purchase order",
		Steps: []string{
			"1. Launch browser",
			"2. Add products to cart",
			"3. Click 'Proceed To Checkout'",
			"4. Enter payment details and click 'Pay and Confirm Order'",
			"5. Click 'Download Invoice' button and verify invoice is downloaded successfully",
		},
	},
	{
		Title: "Test Case 26: Verify Scroll Up without 'Arrow' button and Scroll Down functionality",
		Steps: []string{
			"1. Launch browser",
			"2. Scroll down page to bottom",
			"3. Verify 'SUBSCRIPTION' is visible",
			"4. Scroll up page to top",
			"5. Verify that 'Full-Fledged practice website for Automation Engineers' text is visible on screen",
		},
	},
}
