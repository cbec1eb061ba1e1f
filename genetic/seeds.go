package genetic

// HandTuned are known good weight vectors that start every search. The hole weight
// applies per hole and the aggregate height is left to the search.
var HandTuned = [][]float64{
	{-4.856393412802155, 3.5035969996231951, -56.96079737154641, -2.880295692564255, -4.856393412802155, 0},
	{-6.353544509908005, 2.8153473729915044, -86.28591938844059, -7.6261583212092905, -6.353544509908005, 0},
	{-5.447335891581961, 8.875201136503023, -42.09984658848587, -3.4249029633214434, -5.447335891581961, 0},
	{-1.6079163204088776, 0.07830273595682002, -39.763720595731487, -3.392489979806549, -1.6079163204088776, 0},
	{-9.100653144629398, 4.402909393226468, -57.08796370057478, -9.34658732150928, -9.100653144629398, 0},
	{-5.576697856421292, 1.977271233134471, -97.2612929387645, -6.471947186286485, -5.576697856421292, 0},
	{-2.839548921847872, 9.175617948954585, -36.898333138035087, -4.1842417277399635, -2.839548921847872, 0},
	{-6.212299436204987, 4.694847016310222, -37.11280319354274, -3.082390144105074, -6.212299436204987, 0},
	{-2.29228711620576, 9.79450773957667, -74.17125307425103, -8.144555230558607, -2.29228711620576, 0},
}
